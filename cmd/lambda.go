package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"github.com/vuhoang/logsink/internal/aws"
	"github.com/vuhoang/logsink/internal/extract"
	"github.com/vuhoang/logsink/internal/sink"
	"github.com/vuhoang/logsink/pkg/types"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Start a Lambda runtime handler",
	Long: `Start the AWS Lambda runtime with one of the two handlers. Used as
the container command when the binary is deployed as a Lambda function.

Configuration comes from LOGSINK_* environment variables.

Examples:
  logsink lambda sink       # CloudWatch Logs subscription handler
  logsink lambda extract    # Scheduled MySQL-to-S3 extract handler`,
}

var lambdaSinkCmd = &cobra.Command{
	Use:   "sink",
	Short: "Handle CloudWatch Logs subscription batches",
	RunE:  runLambdaSink,
}

var lambdaExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Handle scheduled extract invocations",
	RunE:  runLambdaExtract,
}

func init() {
	lambdaCmd.AddCommand(lambdaSinkCmd)
	lambdaCmd.AddCommand(lambdaExtractCmd)
	rootCmd.AddCommand(lambdaCmd)
}

func lambdaLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func runLambdaSink(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateSink(); err != nil {
		return err
	}

	client, err := aws.NewClient(cmd.Context(), aws.WithRegion(cfg.AWSRegion))
	if err != nil {
		return err
	}

	handler := sink.NewHandler(aws.NewObjectStore(client), cfg.Sink, lambdaLogger())
	lambda.Start(func(ctx context.Context, event events.CloudwatchLogsEvent) (types.SinkResult, error) {
		return handler.Handle(ctx, event)
	})
	return nil
}

func runLambdaExtract(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateExtract(); err != nil {
		return err
	}

	client, err := aws.NewClient(cmd.Context(), aws.WithRegion(cfg.AWSRegion))
	if err != nil {
		return err
	}
	store := aws.NewObjectStore(client)
	creds := aws.NewParamSource(client)
	log := lambdaLogger()

	// The database connection is opened per invocation; RDS credentials may
	// rotate between runs.
	lambda.Start(func(ctx context.Context) (*types.ExtractReport, error) {
		db, err := extract.Open(ctx, cfg.Extract, creds)
		if err != nil {
			return nil, err
		}
		defer db.Close()

		return extract.NewExtractor(db, store, cfg.Extract, log).Run(ctx)
	})
	return nil
}
