package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/sonarlens/internal/config"
	"github.com/xkilldash9x/sonarlens/internal/observability"
)

// Version is stamped by the release build; the default marks dev builds.
var Version = "0.4.0-dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:     "sonarlens",
	Short:   "Export and summarize code-quality issues from SonarCloud/SonarQube",
	Long:    `sonarlens retrieves bugs, vulnerabilities and code smells from a SonarCloud or SonarQube server, reassembles paginated responses into one result set, and exports or summarizes them.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(); err != nil {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}
		if err := config.Load(viper.GetViper()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		cfg := config.Get()
		observability.InitializeLogger(cfg.Logger)
		observability.GetLogger().Debug("Starting sonarlens", zap.String("version", Version))
		return nil
	},
}

// Execute adds all child commands to the root command and runs it with the
// context passed from main for graceful shutdown.
func Execute(ctx context.Context) error {
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newSummaryCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); ctx.Err() == nil {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")

	// Connection and query flags are shared by every subcommand and bound
	// once here; binding the same key from several flag sets would let the
	// last registration shadow the others.
	pf.String("server", "", "server base URL")
	pf.String("token", "", "authentication token")
	pf.String("organization", "", "organization key (required)")
	pf.String("project", "", "project key (required)")
	pf.StringSlice("types", nil, "issue types to include (CODE_SMELL, BUG, VULNERABILITY)")
	pf.StringSlice("severities", nil, "severities to include (INFO, MINOR, MAJOR, CRITICAL, BLOCKER)")
	pf.String("created-after", "", "only issues created after this date (YYYY-MM-DD)")
	pf.Int("concurrency", 0, "max parallel page fetches (0 = unbounded)")

	_ = viper.BindPFlag("sonar.server", pf.Lookup("server"))
	_ = viper.BindPFlag("sonar.token", pf.Lookup("token"))
	_ = viper.BindPFlag("sonar.organization", pf.Lookup("organization"))
	_ = viper.BindPFlag("sonar.project", pf.Lookup("project"))
	_ = viper.BindPFlag("sonar.types", pf.Lookup("types"))
	_ = viper.BindPFlag("sonar.severities", pf.Lookup("severities"))
	_ = viper.BindPFlag("sonar.created_after", pf.Lookup("created-after"))
	_ = viper.BindPFlag("export.concurrency", pf.Lookup("concurrency"))
}

// initializeConfig reads in the config file and environment variables.
func initializeConfig() error {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SONARLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// The token is the credential most often supplied via the environment,
	// so bind both the structured and the short name.
	_ = viper.BindEnv("sonar.token", "SONARLENS_TOKEN", "SONARLENS_SONAR_TOKEN")
	_ = viper.BindEnv("postgres.url", "SONARLENS_POSTGRES_URL")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults, env and flags cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}
