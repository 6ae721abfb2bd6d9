package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vuhoang/logsink/internal/config"
)

var (
	// Global flags
	profile string
	region  string
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "logsink",
	Short: "Logsink - append RDS error/warning logs to S3 summaries",
	Long: `Logsink ships error and warning lines from CloudWatch Logs into a
growing summary object in S3, and runs the incremental MySQL-to-S3 CSV
extract that produces those logs in the first place.

Local Commands:
  logsink replay payload.json    # Run a captured subscription payload through the sink
  logsink extract                # Run the MySQL-to-S3 extract once
  logsink status                 # Show the accumulator object

Lambda Entrypoints:
  logsink lambda sink            # Start the Lambda runtime for the log sink
  logsink lambda extract         # Start the Lambda runtime for the extractor`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "AWS profile to use")
	rootCmd.PersistentFlags().StringVarP(&region, "region", "r", "", "AWS region to use")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ~/.logsink.yaml)")

	// Bind flags to viper
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	_ = viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
}

func initConfig() {
	// Read from environment variables (LOGSINK_SINK_BUCKET, ...)
	viper.SetEnvPrefix("LOGSINK")
	viper.AutomaticEnv()

	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}

	// Use AWS_REGION if --region not specified
	if region == "" {
		region = os.Getenv("AWS_REGION")
		if region == "" {
			region = os.Getenv("AWS_DEFAULT_REGION")
		}
	}
}

// resolveConfig merges the config file with flag and environment overrides.
// Precedence: flags > LOGSINK_* environment > config file.
func resolveConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if profile != "" {
		cfg.AWSProfile = profile
	}
	if region != "" {
		cfg.AWSRegion = region
	}

	if v := viper.GetString("sink_bucket"); v != "" {
		cfg.Sink.Bucket = v
	}
	if v := viper.GetString("sink_key"); v != "" {
		cfg.Sink.Key = v
	}
	if v := viper.GetString("sink_mode"); v != "" {
		cfg.Sink.Mode = v
	}
	if v := viper.GetString("sink_prefix"); v != "" {
		cfg.Sink.Prefix = v
	}
	if v := viper.GetString("extract_bucket"); v != "" {
		cfg.Extract.Bucket = v
	}
	if v := viper.GetString("extract_tables"); v != "" {
		cfg.Extract.Tables = splitTables(v)
	}
	if v := viper.GetString("db_host"); v != "" {
		cfg.Extract.DB.Host = v
	}
	if v := viper.GetInt("db_port"); v != 0 {
		cfg.Extract.DB.Port = v
	}
	if v := viper.GetString("db_name"); v != "" {
		cfg.Extract.DB.Name = v
	}
	if v := viper.GetString("db_user_param"); v != "" {
		cfg.Extract.DB.UserParam = v
	}
	if v := viper.GetString("db_password_param"); v != "" {
		cfg.Extract.DB.PasswordParam = v
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

func splitTables(s string) []string {
	var tables []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tables = append(tables, t)
		}
	}
	return tables
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
