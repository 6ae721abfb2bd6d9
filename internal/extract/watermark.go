package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vuhoang/logsink/pkg/provider"
)

// defaultWatermark is used for tables that have never been extracted
const defaultWatermark = "1970-01-01 00:00:00"

// watermarkKey returns the object key holding a table's last-extract timestamp
func watermarkKey(table string) string {
	return fmt.Sprintf("%s/csv/last_extract.txt", table)
}

// loadWatermark reads the last-extract timestamp for table. An absent marker
// is not an error; the epoch default makes the first run a full extract.
func (e *Extractor) loadWatermark(ctx context.Context, table string) (string, error) {
	body, _, err := e.store.Fetch(ctx, e.cfg.Bucket, watermarkKey(table))
	if err != nil {
		if errors.Is(err, provider.ErrObjectNotFound) {
			e.log.Warn("no last-extract marker, using epoch default", "table", table)
			return defaultWatermark, nil
		}
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

func (e *Extractor) saveWatermark(ctx context.Context, table, ts string) error {
	if err := e.store.Put(ctx, e.cfg.Bucket, watermarkKey(table), []byte(ts), nil); err != nil {
		return err
	}
	e.log.Info("advanced last-extract marker", "table", table, "watermark", ts)
	return nil
}
