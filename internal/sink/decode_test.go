package sink

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuhoang/logsink/pkg/types"
)

func encodePayload(t *testing.T, v any) string {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecode_WellFormed(t *testing.T) {
	data := encodePayload(t, types.LogBatch{
		LogGroup:  "/aws/rds/instance/mysqldatabase/error",
		LogStream: "mysqldatabase",
		LogEvents: []types.LogEvent{
			{ID: "1", Timestamp: 1735689600000, Message: "ERROR something broke"},
			{ID: "2", Timestamp: 1735689601000, Message: "WARNING something odd"},
		},
	})

	batch, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "/aws/rds/instance/mysqldatabase/error", batch.LogGroup)
	require.Len(t, batch.LogEvents, 2)
	assert.Equal(t, "ERROR something broke", batch.LogEvents[0].Message)
	assert.Equal(t, int64(1735689601000), batch.LogEvents[1].Timestamp)
}

func TestDecode_EmptyEvents(t *testing.T) {
	data := encodePayload(t, types.LogBatch{LogGroup: "g", LogEvents: []types.LogEvent{}})

	batch, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, batch.LogEvents)
}

func TestDecode_MissingLogEvents(t *testing.T) {
	data := encodePayload(t, map[string]string{"logGroup": "g", "logStream": "s"})

	batch, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, batch.LogEvents)
}

func TestDecode_BadBase64(t *testing.T) {
	_, err := Decode("not-base64!!!")
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, StageBase64, decodeErr.Stage)
}

func TestDecode_CorruptGzip(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte("definitely not gzip"))

	_, err := Decode(data)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, StageGzip, decodeErr.Stage)
}

func TestDecode_InvalidJSON(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("{not json"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Decode(base64.StdEncoding.EncodeToString(buf.Bytes()))
	require.Error(t, err)

	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, StageJSON, decodeErr.Stage)
}
