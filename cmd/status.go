package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vuhoang/logsink/internal/aws"
	"github.com/vuhoang/logsink/internal/ui"
	"github.com/vuhoang/logsink/pkg/provider"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the accumulator object",
	Long: `Display the configured sink target and the current state of the
accumulator object in S3.

Examples:
  logsink status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateSink(); err != nil {
		return err
	}

	fmt.Println(ui.HeaderStyle.Render("Sink Status"))
	fmt.Println(ui.MutedStyle.Render("─────────────────────────────────"))
	fmt.Printf("Bucket:   %s\n", cfg.Sink.Bucket)
	fmt.Printf("Mode:     %s\n", cfg.Sink.Mode)
	fmt.Printf("Key:      %s\n", ui.KeyStyle.Render(cfg.Sink.Key))
	fmt.Println()

	ctx := cmd.Context()
	client, err := aws.NewClient(ctx, aws.WithProfile(cfg.AWSProfile), aws.WithRegion(cfg.AWSRegion))
	if err != nil {
		return err
	}

	obj, err := aws.NewObjectStore(client).Stat(ctx, cfg.Sink.Bucket, cfg.Sink.Key)
	if err != nil {
		if errors.Is(err, provider.ErrObjectNotFound) {
			fmt.Println("Artifact: " + ui.MutedStyle.Render("(not created yet)"))
			return nil
		}
		return err
	}

	fmt.Printf("Size:     %s\n", ui.CountStyle.Render(fmt.Sprintf("%d bytes", obj.Size)))
	fmt.Printf("Modified: %s\n", obj.LastModified.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("ETag:     %s\n", ui.MutedStyle.Render(obj.ETag))
	return nil
}
