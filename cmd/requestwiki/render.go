package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wikiforge/requestwiki/pkg/export"
	"github.com/wikiforge/requestwiki/pkg/form"
	"github.com/wikiforge/requestwiki/pkg/render"
)

func renderCmd(flags *rootFlags) *cobra.Command {
	var (
		out    string
		action string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the intake form as standalone HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			desc := form.NewBuilder(cfg).BuildIntake()
			renderer, err := render.New()
			if err != nil {
				return err
			}
			html, err := renderer.Render(desc, render.Options{Action: action})
			if err != nil {
				return err
			}
			return writeOutput(out, html)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&action, "action", "", "Form action URL")
	return cmd
}

func exportCmd(flags *rootFlags) *cobra.Command {
	var (
		out   string
		title string
		path  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the intake form as an OpenAPI document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			desc := form.NewBuilder(cfg).BuildIntake()
			payload, err := export.JSON(cmd.Context(), desc, export.Options{
				Title: title,
				Path:  path,
			})
			if err != nil {
				return err
			}
			return writeOutput(out, payload)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&title, "title", "Wiki request intake", "Document title")
	cmd.Flags().StringVar(&path, "path", "/requestwiki", "Endpoint path for the operation")
	return cmd
}

func writeOutput(path string, payload []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
