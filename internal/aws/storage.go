package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/vuhoang/logsink/pkg/provider"
	"github.com/vuhoang/logsink/pkg/types"
)

// StorageError wraps an S3 failure with the operation and location
type StorageError struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s s3://%s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ObjectStore implements the ObjectStore interface on S3
type ObjectStore struct {
	s3 *s3.Client
}

// NewObjectStore creates an S3-backed object store
func NewObjectStore(client *Client) *ObjectStore {
	return &ObjectStore{s3: client.S3}
}

// Fetch returns the object body and its ETag. A missing object yields an
// error wrapping provider.ErrObjectNotFound.
func (o *ObjectStore) Fetch(ctx context.Context, bucket, key string) ([]byte, string, error) {
	out, err := o.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, "", &StorageError{Op: "get", Bucket: bucket, Key: key, Err: provider.ErrObjectNotFound}
		}
		return nil, "", &StorageError{Op: "get", Bucket: bucket, Key: key, Err: err}
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", &StorageError{Op: "get", Bucket: bucket, Key: key, Err: err}
	}

	return body, deref(out.ETag), nil
}

// Put writes body as the new object content. A failed precondition yields an
// error wrapping provider.ErrPreconditionFailed.
func (o *ObjectStore) Put(ctx context.Context, bucket, key string, body []byte, cond *provider.PutCondition) error {
	input := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader(body),
	}
	if cond != nil {
		if cond.IfMatch != "" {
			input.IfMatch = &cond.IfMatch
		}
		if cond.IfNotExists {
			input.IfNoneMatch = strPtr("*")
		}
	}

	if _, err := o.s3.PutObject(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return &StorageError{Op: "put", Bucket: bucket, Key: key, Err: provider.ErrPreconditionFailed}
		}
		return &StorageError{Op: "put", Bucket: bucket, Key: key, Err: err}
	}

	return nil
}

// Stat returns object metadata without reading the body
func (o *ObjectStore) Stat(ctx context.Context, bucket, key string) (*types.Object, error) {
	out, err := o.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		var notFound *s3types.NotFound
		if errors.As(err, &notFound) {
			return nil, &StorageError{Op: "head", Bucket: bucket, Key: key, Err: provider.ErrObjectNotFound}
		}
		return nil, &StorageError{Op: "head", Bucket: bucket, Key: key, Err: err}
	}

	obj := &types.Object{
		Key:  key,
		Size: derefInt64(out.ContentLength),
		ETag: deref(out.ETag),
	}
	if out.LastModified != nil {
		obj.LastModified = *out.LastModified
	}
	return obj, nil
}
