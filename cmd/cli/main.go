package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/linkshelf/pkg/adapters/cache"
	"github.com/wadjakorntonsri/linkshelf/pkg/adapters/mcp"
	"github.com/wadjakorntonsri/linkshelf/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/linkshelf/pkg/config"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/domain"
	"github.com/wadjakorntonsri/linkshelf/pkg/core/services"
	"github.com/wadjakorntonsri/linkshelf/pkg/logging"
)

var version = "dev"

type cli struct {
	databaseURL string
	store       *sqlstore.Store
	service     *services.OrganizerService
}

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	app := &cli{}

	cmd := &cobra.Command{
		Use:          "linkshelf",
		Short:        "Maintenance commands for the bookmark organizer",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Back up one user's organizer
  linkshelf export --email me@example.com > backup.json

  # Restore it into another database
  linkshelf --database-url postgres://... import --email me@example.com --file backup.json

  # Serve the organizer to an MCP client over stdio
  linkshelf mcp --email me@example.com
`),
	}
	cmd.PersistentFlags().StringVar(&app.databaseURL, "database-url", cfg.DatabaseURL, "database URL (sqlite file, libsql:// or postgres://)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		store, err := sqlstore.New(app.databaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		app.store = store
		app.service = services.NewOrganizerService(store, cache.Noop{})
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.store == nil {
			return nil
		}
		return app.store.Close()
	}

	cmd.AddCommand(
		newExportCmd(app),
		newImportCmd(app),
		newEnsureDefaultsCmd(app),
		newMCPCmd(app),
	)
	return cmd
}

func newExportCmd(app *cli) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's tree as JSON to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := app.service.LookupUser(ctx, email)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("no user with email %q", email)
				}
				return err
			}
			tree, err := app.service.ExportTree(ctx, user.ID)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tree)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newImportCmd(app *cli) *cobra.Command {
	var email, file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Restore an exported tree into a user's organizer",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			var tree domain.Tree
			if err := json.NewDecoder(f).Decode(&tree); err != nil {
				return fmt.Errorf("decode %s: %w", file, err)
			}

			ctx := withLogger(cmd.Context())
			user, err := app.service.RegisterUser(ctx, email, "")
			if err != nil {
				return err
			}
			report, err := app.service.ImportTree(ctx, user.ID, &tree)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d sections, %d categories, %d bookmarks (%d skipped)\n",
				report.Sections, report.Categories, report.Bookmarks, report.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&file, "file", "", "JSON file produced by export")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newEnsureDefaultsCmd(app *cli) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "ensure-defaults",
		Short: "Create the user if needed and seed the default categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.service.ProvisionUser(withLogger(cmd.Context()), email, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d (%s) ready\n", user.ID, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newMCPCmd(app *cli) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve one user's organizer over MCP on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app.service.ProvisionUser(withLogger(cmd.Context()), email, "")
			if err != nil {
				return err
			}
			// stdout carries the protocol; logs stay on stderr.
			zlog.Info().Int64("user_id", user.ID).Msg("serving MCP on stdio")
			return mcp.NewMCPServer(app.service, user.ID, version).ServeStdio()
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func withLogger(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return zlog.Logger.WithContext(ctx)
}
