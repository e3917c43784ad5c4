package main

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/wikiforge/requestwiki/internal/store"
	"github.com/wikiforge/requestwiki/pkg/audit"
	"github.com/wikiforge/requestwiki/pkg/form"
	"github.com/wikiforge/requestwiki/pkg/identity"
	"github.com/wikiforge/requestwiki/pkg/notify"
	"github.com/wikiforge/requestwiki/pkg/prompt"
)

func newCmd(flags *rootFlags) *cobra.Command {
	var (
		dbPath   string
		userName string
		userID   int64
		natsURL  string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Submit a wiki request interactively",
		Long: `New walks the intake form as a series of terminal prompts and
saves the resulting request. The submission runs through the same
validation as a browser submission.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			log := flags.logger()

			st, err := store.OpenSQLite(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			options := []form.DispatcherOption{
				form.WithLogger(log),
				form.WithAuditor(audit.NewWithLogger(log)),
			}
			if natsURL != "" {
				conn, err := nats.Connect(natsURL)
				if err != nil {
					return fmt.Errorf("connect to nats: %w", err)
				}
				defer conn.Close()
				options = append(options, form.WithNotifier(notify.NewNATS(conn, "")))
			}

			dispatcher, err := form.NewDispatcher(cfg, st, options...)
			if err != nil {
				return err
			}

			desc := form.NewBuilder(cfg).BuildIntake()
			values, err := prompt.NewWalker().Walk(cmd.Context(), desc)
			if err != nil {
				return err
			}

			actor := identity.New(userID, userName)
			actor.EmailConfirmed = true

			req, err := dispatcher.SubmitIntake(cmd.Context(), values, actor)
			if err != nil {
				return err
			}

			fmt.Printf("Request #%d created: %s (https://%s.%s)\n", req.ID, req.Sitename, req.Subdomain, cfg.Wiki.Domain)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "requestwiki.db", "SQLite database path")
	cmd.Flags().StringVar(&userName, "user", "", "Requesting user name")
	cmd.Flags().Int64Var(&userID, "user-id", 0, "Requesting user id")
	cmd.Flags().StringVar(&natsURL, "nats", "", "NATS server URL for lifecycle events")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
