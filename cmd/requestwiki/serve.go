package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wikiforge/requestwiki/internal/store"
	"github.com/wikiforge/requestwiki/pkg/audit"
	"github.com/wikiforge/requestwiki/pkg/config"
	"github.com/wikiforge/requestwiki/pkg/form"
	"github.com/wikiforge/requestwiki/pkg/identity"
	"github.com/wikiforge/requestwiki/pkg/render"
)

func serveCmd(flags *rootFlags) *cobra.Command {
	var (
		addr     string
		dbPath   string
		userName string
		userID   int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a development preview server for the intake form",
		Long: `Serve renders the intake form over HTTP and accepts submissions,
attributing them to the configured user. Configuration edits are
picked up without a restart. This is a preview tool; production
hosts embed the form engine behind their own authentication.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := flags.logger()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			current, err := configSource(ctx, flags, log)
			if err != nil {
				return err
			}

			st, err := store.OpenSQLite(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			actor := identity.New(userID, userName)
			actor.EmailConfirmed = true

			srv := &previewServer{
				current: current,
				store:   st,
				actor:   actor,
				log:     log,
			}

			mux := http.NewServeMux()
			mux.HandleFunc("/", srv.handleIntake)
			mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(render.AssetsFS()))))
			mux.Handle("/metrics", promhttp.Handler())

			server := &http.Server{
				Addr:         addr,
				Handler:      mux,
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", addr).Msg("preview server listening")
				errCh <- server.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", "requestwiki.db", "SQLite database path")
	cmd.Flags().StringVar(&userName, "user", "preview", "User submissions are attributed to")
	cmd.Flags().Int64Var(&userID, "user-id", 1, "User id submissions are attributed to")
	return cmd
}

// configSource returns a function yielding the active configuration.
// With a config file the watcher keeps it fresh; without one the
// defaults are fixed for the process lifetime.
func configSource(ctx context.Context, flags *rootFlags, log zerolog.Logger) (func() *config.Config, error) {
	if flags.configPath == "" {
		cfg := config.DefaultConfig()
		return func() *config.Config { return cfg }, nil
	}

	watcher, err := config.NewWatcher(config.WatcherConfig{
		Path:   flags.configPath,
		Logger: log,
	})
	if err != nil {
		return nil, err
	}
	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("config watcher stopped")
		}
	}()
	return watcher.Current, nil
}

type previewServer struct {
	current func() *config.Config
	store   *store.SQLite
	actor   identity.Identity
	log     zerolog.Logger
}

func (s *previewServer) handleIntake(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	cfg := s.current()
	opts := render.Options{Action: "/"}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form data", http.StatusBadRequest)
			return
		}
		values := form.Values{}
		for name := range r.PostForm {
			values[name] = r.PostForm.Get(name)
		}

		dispatcher, err := form.NewDispatcher(cfg, s.store,
			form.WithLogger(s.log),
			form.WithAuditor(audit.NewWithLogger(s.log)),
		)
		if err != nil {
			http.Error(w, "configuration error", http.StatusInternalServerError)
			return
		}

		req, err := dispatcher.SubmitIntake(r.Context(), values, s.actor)
		if err != nil {
			opts.Warning = err.Error()
			opts.Values = values
		} else {
			opts.Notice = fmt.Sprintf("Request #%d submitted", req.ID)
		}
	}

	renderer, err := render.New()
	if err != nil {
		http.Error(w, "renderer error", http.StatusInternalServerError)
		return
	}
	desc := form.NewBuilder(cfg).BuildIntake()
	html, err := renderer.Render(desc, opts)
	if err != nil {
		s.log.Error().Err(err).Msg("render failed")
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	writePage(w, html)
}

// writePage wraps the form fragment in a minimal document that loads the
// bundled client script.
func writePage(w http.ResponseWriter, formHTML []byte) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Request a wiki</title></head>
<body>
%s
<script src="/assets/%s"></script>
</body>
</html>
`, formHTML, render.RuntimeScriptName)
}
