package provider

import (
	"context"
	"errors"

	"github.com/vuhoang/logsink/pkg/types"
)

// Common errors
var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrPreconditionFailed = errors.New("storage precondition failed")
)

// PutCondition guards a write against concurrent modification
type PutCondition struct {
	IfMatch     string // write only if the current ETag matches
	IfNotExists bool   // write only if the object does not already exist
}

// ObjectStore defines the interface for object storage operations
type ObjectStore interface {
	// Fetch returns the object body and its ETag. Missing objects yield an
	// error wrapping ErrObjectNotFound.
	Fetch(ctx context.Context, bucket, key string) ([]byte, string, error)

	// Put writes body as the new object content, optionally guarded by cond.
	// A failed guard yields an error wrapping ErrPreconditionFailed.
	Put(ctx context.Context, bucket, key string, body []byte, cond *PutCondition) error

	// Stat returns object metadata without reading the body
	Stat(ctx context.Context, bucket, key string) (*types.Object, error)
}

// CredentialSource resolves a named credential (an SSM parameter path or a
// Secrets Manager secret name) to its value
type CredentialSource interface {
	Get(ctx context.Context, name string) (string, error)
}
