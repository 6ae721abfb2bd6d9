package extract

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuhoang/logsink/internal/config"
	"github.com/vuhoang/logsink/pkg/provider"
	"github.com/vuhoang/logsink/pkg/types"
)

// memStore is a minimal in-memory ObjectStore for extractor tests
type memStore struct {
	objects map[string][]byte
	puts    int
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) path(bucket, key string) string { return bucket + "/" + key }

func (s *memStore) Fetch(ctx context.Context, bucket, key string) ([]byte, string, error) {
	body, ok := s.objects[s.path(bucket, key)]
	if !ok {
		return nil, "", fmt.Errorf("get s3://%s/%s: %w", bucket, key, provider.ErrObjectNotFound)
	}
	return body, "etag", nil
}

func (s *memStore) Put(ctx context.Context, bucket, key string, body []byte, cond *provider.PutCondition) error {
	s.puts++
	s.objects[s.path(bucket, key)] = body
	return nil
}

func (s *memStore) Stat(ctx context.Context, bucket, key string) (*types.Object, error) {
	body, ok := s.objects[s.path(bucket, key)]
	if !ok {
		return nil, fmt.Errorf("head s3://%s/%s: %w", bucket, key, provider.ErrObjectNotFound)
	}
	return &types.Object{Key: key, Size: int64(len(body))}, nil
}

func testExtractConfig() config.ExtractConfig {
	return config.ExtractConfig{
		Bucket: "test.complete.food-delivery",
		Tables: []string{"location"},
	}
}

const locationQuery = "SELECT * FROM location WHERE modifiedDate > ? OR (modifiedDate IS NULL AND createdDate > ?)"

func newTestExtractor(t *testing.T, store *memStore) (*Extractor, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	e := NewExtractor(db, store, testExtractConfig(), nil)
	e.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }
	return e, mock
}

func TestExtractor_FirstRunUsesEpochDefault(t *testing.T) {
	store := newMemStore()
	e, mock := newTestExtractor(t, store)

	mock.ExpectQuery(regexp.QuoteMeta(locationQuery)).
		WithArgs(defaultWatermark, defaultWatermark).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "createdDate", "modifiedDate"}).
			AddRow("1", "hanoi", "2025-03-01 10:00:00", "2025-03-02 11:30:00").
			AddRow("2", "saigon", "2025-03-03 09:00:00", nil))

	report, err := e.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, report.Tables, 1)
	tr := report.Tables[0]
	assert.Equal(t, 2, tr.Rows)
	assert.Equal(t, "location/csv/location_data_20250304_050607.csv", tr.Key)
	// Row 2 has no modifiedDate; its createdDate is the newest change time.
	assert.Equal(t, "2025-03-03 09:00:00", tr.Watermark)

	csv, _, err := store.Fetch(context.Background(), "test.complete.food-delivery", tr.Key)
	require.NoError(t, err)
	assert.Equal(t,
		"id,name,createdDate,modifiedDate\n"+
			"1,hanoi,2025-03-01 10:00:00,2025-03-02 11:30:00\n"+
			"2,saigon,2025-03-03 09:00:00,\n",
		string(csv))

	marker, _, err := store.Fetch(context.Background(), "test.complete.food-delivery", "location/csv/last_extract.txt")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-03 09:00:00", string(marker))
}

func TestExtractor_UsesStoredWatermark(t *testing.T) {
	store := newMemStore()
	store.objects["test.complete.food-delivery/location/csv/last_extract.txt"] = []byte("2025-03-01 00:00:00\n")
	e, mock := newTestExtractor(t, store)

	mock.ExpectQuery(regexp.QuoteMeta(locationQuery)).
		WithArgs("2025-03-01 00:00:00", "2025-03-01 00:00:00").
		WillReturnRows(sqlmock.NewRows([]string{"id", "createdDate", "modifiedDate"}).
			AddRow("7", "2025-03-05 00:00:00", "2025-03-06 00:00:00"))

	report, err := e.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, "2025-03-06 00:00:00", report.Tables[0].Watermark)
}

func TestExtractor_NoNewRows(t *testing.T) {
	store := newMemStore()
	e, mock := newTestExtractor(t, store)

	mock.ExpectQuery(regexp.QuoteMeta(locationQuery)).
		WithArgs(defaultWatermark, defaultWatermark).
		WillReturnRows(sqlmock.NewRows([]string{"id", "createdDate", "modifiedDate"}))

	report, err := e.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 0, report.Rows())
	assert.Equal(t, defaultWatermark, report.Tables[0].Watermark)
	assert.Zero(t, store.puts, "empty extract writes nothing")
}

func TestExtractor_QueryFailure(t *testing.T) {
	store := newMemStore()
	e, mock := newTestExtractor(t, store)

	mock.ExpectQuery(regexp.QuoteMeta(locationQuery)).
		WillReturnError(fmt.Errorf("table missing"))

	_, err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract table location")
	assert.Zero(t, store.puts)
}

func TestExtractor_RejectsBadTableName(t *testing.T) {
	store := newMemStore()
	e, _ := newTestExtractor(t, store)
	e.cfg.Tables = []string{"loc;drop"}

	_, err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}
