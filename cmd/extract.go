package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vuhoang/logsink/internal/aws"
	"github.com/vuhoang/logsink/internal/extract"
	"github.com/vuhoang/logsink/internal/ui"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run the MySQL-to-S3 extract once",
	Long: `Run one incremental extract of the configured tables: rows changed
since each table's last-extract marker are exported as CSV to S3 and the
marker is advanced.

Database credentials are resolved from SSM Parameter Store or Secrets
Manager, never from the config file.

Examples:
  logsink extract
  logsink extract --profile prod --region eu-north-1`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateExtract(); err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := aws.NewClient(ctx, aws.WithProfile(cfg.AWSProfile), aws.WithRegion(cfg.AWSRegion))
	if err != nil {
		return err
	}

	db, err := extract.Open(ctx, cfg.Extract, aws.NewParamSource(client))
	if err != nil {
		return err
	}
	defer db.Close()

	extractor := extract.NewExtractor(db, aws.NewObjectStore(client), cfg.Extract, newLogger())
	report, err := extractor.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(ui.HeaderStyle.Render("Extract Report"))
	for _, t := range report.Tables {
		if t.Rows == 0 {
			fmt.Printf("  %-12s %s\n", t.Table, ui.MutedStyle.Render("no new rows"))
			continue
		}
		fmt.Printf("  %-12s %s rows → %s\n",
			t.Table,
			ui.CountStyle.Render(fmt.Sprintf("%d", t.Rows)),
			ui.KeyStyle.Render(t.Key))
	}
	return nil
}
