package sink

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vuhoang/logsink/pkg/types"
)

// Decode stages, reported by DecodeError
const (
	StageBase64 = "base64"
	StageGzip   = "gzip"
	StageJSON   = "json"
)

// DecodeError reports which stage of the payload decode failed. Any decode
// failure is fatal for the invocation.
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode unpacks a CloudWatch Logs subscription payload: base64, then gzip,
// then JSON. A batch with no logEvents is valid and decodes to an empty batch.
func Decode(data string) (*types.LogBatch, error) {
	compressed, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, &DecodeError{Stage: StageBase64, Err: err}
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, &DecodeError{Stage: StageGzip, Err: err}
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, &DecodeError{Stage: StageGzip, Err: err}
	}
	if err := zr.Close(); err != nil {
		return nil, &DecodeError{Stage: StageGzip, Err: err}
	}

	var batch types.LogBatch
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, &DecodeError{Stage: StageJSON, Err: err}
	}

	return &batch, nil
}
