package sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/vuhoang/logsink/internal/config"
	"github.com/vuhoang/logsink/pkg/provider"
	"github.com/vuhoang/logsink/pkg/types"
)

// EmptyBatchMessage is returned when the delivered batch held no events
const EmptyBatchMessage = "no errors or warnings found in logs"

// snapshotTimeLayout names per-batch snapshot objects
const snapshotTimeLayout = "20060102_150405"

// Handler consumes CloudWatch Logs subscription batches and appends the
// formatted lines to the accumulator object.
type Handler struct {
	store provider.ObjectStore
	cfg   config.SinkConfig
	log   *slog.Logger
	now   func() time.Time
}

// NewHandler creates a sink handler writing through store per cfg
func NewHandler(store provider.ObjectStore, cfg config.SinkConfig, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Mode == "" {
		cfg.Mode = config.ModeAppend
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = config.DefaultMaxAttempts
	}
	return &Handler{store: store, cfg: cfg, log: log, now: time.Now}
}

// Handle decodes, formats and persists one delivered batch. Decode and
// storage failures propagate to the invocation boundary; there is no local
// recovery.
func (h *Handler) Handle(ctx context.Context, event events.CloudwatchLogsEvent) (types.SinkResult, error) {
	batch, err := Decode(event.AWSLogs.Data)
	if err != nil {
		return types.SinkResult{}, err
	}

	if len(batch.LogEvents) == 0 {
		h.log.Info("batch held no events",
			"logGroup", batch.LogGroup,
			"logStream", batch.LogStream)
		return types.SinkResult{Message: EmptyBatchMessage}, nil
	}

	block := Render(batch.LogEvents)

	var key string
	switch h.cfg.Mode {
	case config.ModeSnapshot:
		key = h.snapshotKey()
		err = h.store.Put(ctx, h.cfg.Bucket, key, []byte(block), nil)
	default:
		key = h.cfg.Key
		err = h.appendTo(ctx, key, block)
	}
	if err != nil {
		return types.SinkResult{}, err
	}

	h.log.Info("persisted log batch",
		"logGroup", batch.LogGroup,
		"events", len(batch.LogEvents),
		"key", key)

	return types.SinkResult{
		Appended: len(batch.LogEvents),
		Bucket:   h.cfg.Bucket,
		Key:      key,
		Message:  fmt.Sprintf("saved %d messages to %s", len(batch.LogEvents), key),
	}, nil
}

// appendTo performs the read-modify-write against the fixed accumulator key.
// The write is conditional on the ETag the read observed, and the whole cycle
// retries on conflict so concurrent invocations cannot lose lines.
func (h *Handler) appendTo(ctx context.Context, key, block string) error {
	var lastErr error
	for attempt := 1; attempt <= h.cfg.MaxAttempts; attempt++ {
		prior, etag, err := h.store.Fetch(ctx, h.cfg.Bucket, key)
		cond := &provider.PutCondition{}
		switch {
		case err == nil:
			cond.IfMatch = etag
		case errors.Is(err, provider.ErrObjectNotFound):
			cond.IfNotExists = true
			prior = nil
		default:
			return err
		}

		err = h.store.Put(ctx, h.cfg.Bucket, key, []byte(joinArtifact(string(prior), block)), cond)
		if err == nil {
			return nil
		}
		if !errors.Is(err, provider.ErrPreconditionFailed) {
			return err
		}
		lastErr = err
		h.log.Warn("accumulator changed during append, retrying",
			"key", key,
			"attempt", attempt)
	}
	return fmt.Errorf("append to %s lost %d conditional writes: %w", key, h.cfg.MaxAttempts, lastErr)
}

func (h *Handler) snapshotKey() string {
	prefix := strings.TrimSuffix(h.cfg.Prefix, "/")
	return fmt.Sprintf("%s/summary_%s.txt", prefix, h.now().UTC().Format(snapshotTimeLayout))
}

// joinArtifact splices the new block onto the prior content with exactly one
// newline between them. The artifact never carries a trailing newline.
func joinArtifact(prior, block string) string {
	if prior == "" {
		return block
	}
	return strings.TrimRight(prior, "\n") + "\n" + block
}
