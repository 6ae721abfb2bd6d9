package extract

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/vuhoang/logsink/internal/config"
	"github.com/vuhoang/logsink/pkg/provider"
	"github.com/vuhoang/logsink/pkg/types"
)

// objectTimeLayout names the per-run CSV objects
const objectTimeLayout = "20060102_150405"

// Extractor runs the incremental MySQL to S3 CSV export
type Extractor struct {
	db    *sql.DB
	store provider.ObjectStore
	cfg   config.ExtractConfig
	log   *slog.Logger
	now   func() time.Time
}

// NewExtractor creates an extractor over an open database handle
func NewExtractor(db *sql.DB, store provider.ObjectStore, cfg config.ExtractConfig, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{db: db, store: store, cfg: cfg, log: log, now: time.Now}
}

// Open connects to the source MySQL database, resolving credentials through
// the configured parameter source.
func Open(ctx context.Context, cfg config.ExtractConfig, creds provider.CredentialSource) (*sql.DB, error) {
	user, err := creds.Get(ctx, cfg.DB.UserParam)
	if err != nil {
		return nil, fmt.Errorf("resolve database username: %w", err)
	}
	password, err := creds.Get(ctx, cfg.DB.PasswordParam)
	if err != nil {
		return nil, fmt.Errorf("resolve database password: %w", err)
	}

	mc := mysql.NewConfig()
	mc.User = user
	mc.Passwd = password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", cfg.DB.Host, cfg.DB.Port)
	mc.DBName = cfg.DB.Name

	db, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to mysql at %s: %w", mc.Addr, err)
	}
	return db, nil
}

// Run extracts every configured table in order and returns a per-table report
func (e *Extractor) Run(ctx context.Context) (*types.ExtractReport, error) {
	report := &types.ExtractReport{}
	for _, table := range e.cfg.Tables {
		e.log.Info("processing table", "table", table)
		tr, err := e.extractTable(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("extract table %s: %w", table, err)
		}
		report.Tables = append(report.Tables, *tr)
	}
	return report, nil
}

// extractTable exports rows changed since the table's watermark, uploads the
// CSV, then advances the watermark. The watermark only moves after the upload
// succeeded, so a failed run re-extracts the same rows.
func (e *Extractor) extractTable(ctx context.Context, table string) (*types.TableReport, error) {
	if !validIdent(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	since, err := e.loadWatermark(ctx, table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT * FROM %s WHERE modifiedDate > ? OR (modifiedDate IS NULL AND createdDate > ?)",
		table,
	)
	rows, err := e.db.QueryContext(ctx, query, since, since)
	if err != nil {
		return nil, fmt.Errorf("query changed rows: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read result columns: %w", err)
	}

	modIdx, createIdx := -1, -1
	for i, col := range cols {
		switch strings.ToLower(col) {
		case "modifieddate":
			modIdx = i
		case "createddate":
			createIdx = i
		}
	}

	var records [][]string
	newest := since
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		record := make([]string, len(cols))
		for i, v := range values {
			if v.Valid {
				record[i] = v.String
			}
		}
		records = append(records, record)

		// The effective change time is modifiedDate, falling back to
		// createdDate. The timestamp layout sorts lexicographically.
		if ts := effectiveTimestamp(values, modIdx, createIdx); ts > newest {
			newest = ts
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	if len(records) == 0 {
		e.log.Info("no new or updated rows", "table", table)
		return &types.TableReport{Table: table, Watermark: since}, nil
	}

	body, err := renderCSV(cols, records)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/csv/%s_data_%s.csv", table, table, e.now().UTC().Format(objectTimeLayout))
	if err := e.store.Put(ctx, e.cfg.Bucket, key, body, nil); err != nil {
		return nil, err
	}
	e.log.Info("uploaded csv", "table", table, "rows", len(records), "key", key)

	if err := e.saveWatermark(ctx, table, newest); err != nil {
		return nil, err
	}

	return &types.TableReport{
		Table:     table,
		Rows:      len(records),
		Key:       key,
		Watermark: newest,
	}, nil
}

func effectiveTimestamp(values []sql.NullString, modIdx, createIdx int) string {
	if modIdx >= 0 && values[modIdx].Valid {
		return values[modIdx].String
	}
	if createIdx >= 0 && values[createIdx].Valid {
		return values[createIdx].String
	}
	return ""
}

// validIdent accepts the table identifiers that may be interpolated into the
// extract query
func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
