package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spf13/cobra"

	"github.com/vuhoang/logsink/internal/aws"
	"github.com/vuhoang/logsink/internal/sink"
	"github.com/vuhoang/logsink/internal/ui"
)

var replayCmd = &cobra.Command{
	Use:   "replay <payload-file>",
	Short: "Run a captured subscription payload through the sink",
	Long: `Run a captured CloudWatch Logs subscription payload through the sink,
appending its formatted lines to the configured S3 object.

The payload file is either the full Lambda event JSON ({"awslogs":{"data":...}})
or the raw base64 blob on its own.

Examples:
  logsink replay payload.json
  logsink replay payload.b64`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateSink(); err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read payload file: %w", err)
	}
	event, err := parsePayload(raw)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := aws.NewClient(ctx, aws.WithProfile(cfg.AWSProfile), aws.WithRegion(cfg.AWSRegion))
	if err != nil {
		return err
	}

	handler := sink.NewHandler(aws.NewObjectStore(client), cfg.Sink, newLogger())
	result, err := handler.Handle(ctx, event)
	if err != nil {
		return err
	}

	if result.Appended == 0 {
		fmt.Println(ui.MutedStyle.Render(result.Message))
		return nil
	}
	fmt.Printf("%s appended %s lines to %s\n",
		ui.OKStyle.Render("✓"),
		ui.CountStyle.Render(fmt.Sprintf("%d", result.Appended)),
		ui.KeyStyle.Render(fmt.Sprintf("s3://%s/%s", result.Bucket, result.Key)))
	return nil
}

// parsePayload accepts either a Lambda event envelope or a bare base64 blob
func parsePayload(raw []byte) (events.CloudwatchLogsEvent, error) {
	var event events.CloudwatchLogsEvent
	trimmed := strings.TrimSpace(string(raw))

	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(raw, &event); err != nil {
			return event, fmt.Errorf("failed to parse event envelope: %w", err)
		}
		if event.AWSLogs.Data == "" {
			return event, fmt.Errorf("event envelope holds no awslogs.data")
		}
		return event, nil
	}

	event.AWSLogs.Data = trimmed
	return event, nil
}
