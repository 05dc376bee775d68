package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/sonarlens/api/schemas"
	"github.com/xkilldash9x/sonarlens/internal/config"
	"github.com/xkilldash9x/sonarlens/internal/export"
	"github.com/xkilldash9x/sonarlens/internal/network"
	"github.com/xkilldash9x/sonarlens/internal/observability"
	"github.com/xkilldash9x/sonarlens/internal/results"
	"github.com/xkilldash9x/sonarlens/internal/sonar"
	"github.com/xkilldash9x/sonarlens/internal/store"
)

func newExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch all issues for a project and write them as JSON or CSV",
		Long:  `Fetches every page of matching issues from the issue-search endpoint, merges them in page order, enriches each issue with a descriptive rule name, and writes the complete result set to stdout or a file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			cfg := config.Get()

			client, err := buildClient(cfg, logger)
			if err != nil {
				return err
			}

			result, err := client.FetchAllPages(ctx)
			if err != nil {
				return err
			}
			logger.Info("Export complete", zap.Int("issues", result.Total))

			var out io.Writer = os.Stdout
			if cfg.Export.Output != "" {
				f, err := os.Create(cfg.Export.Output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			switch cfg.Export.Format {
			case "json":
				err = export.WriteJSON(out, result)
			case "csv":
				err = export.WriteCSV(out, result.Issues)
			default:
				return fmt.Errorf("unsupported output format %q (want json or csv)", cfg.Export.Format)
			}
			if err != nil {
				return err
			}

			if cfg.Export.SaveDB {
				if err := saveToDatabase(ctx, cfg, result, logger); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags := exportCmd.Flags()
	flags.StringP("output", "o", "", "output file (default stdout)")
	flags.StringP("format", "f", "json", "output format: json or csv")
	flags.Bool("save-db", false, "also persist the export run to PostgreSQL")

	_ = viper.BindPFlag("export.output", flags.Lookup("output"))
	_ = viper.BindPFlag("export.format", flags.Lookup("format"))
	_ = viper.BindPFlag("export.save_db", flags.Lookup("save-db"))

	return exportCmd
}

// buildClient assembles the issue client from the loaded configuration.
func buildClient(cfg *config.Config, logger *zap.Logger) (*sonar.Client, error) {
	var overrides map[string]string
	if cfg.Rules.File != "" {
		var err error
		overrides, err = results.LoadRuleNames(cfg.Rules.File)
		if err != nil {
			return nil, err
		}
	}
	normalizer := results.NewNormalizer(overrides)

	netCfg := network.NewDefaultClientConfig()
	if cfg.Network.Timeout > 0 {
		netCfg.RequestTimeout = cfg.Network.Timeout
	}
	netCfg.IgnoreTLSErrors = cfg.Network.IgnoreTLSErrors
	netCfg.Logger = logger.Named("httpclient")

	return sonar.New(cfg.Sonar, network.NewClient(netCfg), normalizer, logger, cfg.Export.Concurrency), nil
}

// saveToDatabase persists the export run when the database sink is enabled.
func saveToDatabase(ctx context.Context, cfg *config.Config, result *schemas.ExportResult, logger *zap.Logger) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("--save-db requires postgres.url to be configured (hint: SONARLENS_POSTGRES_URL)")
	}

	pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	dbStore, err := store.New(ctx, pool, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store service: %w", err)
	}

	run := store.ExportRun{
		ID:           uuid.New(),
		Organization: cfg.Sonar.Organization,
		Project:      cfg.Sonar.Project,
		Total:        result.Total,
		CreatedAt:    time.Now().UTC(),
	}
	return dbStore.SaveExport(ctx, run, result.Issues)
}
