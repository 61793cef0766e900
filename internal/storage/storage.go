// Package storage removes uploaded files from S3 compatible buckets
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// S3 can delete at most 1000 keys in a single DeleteObjects request
const maxBatchSize = 1000

// Remover deletes objects from a named bucket. Success is silent.
type Remover interface {
	Remove(ctx context.Context, bucket, path string) error
	RemoveMany(ctx context.Context, bucket string, paths []string) error
}

// API is the part of *s3.Client the S3 remover needs.
type API interface {
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// Error is returned for any failed removal. It names the bucket and the paths
// involved.
type Error struct {
	Op     string
	Bucket string
	Paths  []string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s [%s] from bucket '%s', %v", e.Op, strings.Join(e.Paths, ", "), e.Bucket, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type S3Remover struct {
	api API
}

func NewS3Remover(api API) *S3Remover {
	return &S3Remover{api: api}
}

func (r *S3Remover) Remove(ctx context.Context, bucket, path string) error {
	_, err := r.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return &Error{Op: "remove", Bucket: bucket, Paths: []string{path}, Err: err}
	}

	zap.L().Debug("Removed object", zap.String("bucket", bucket), zap.String("path", path))
	return nil
}

func (r *S3Remover) RemoveMany(ctx context.Context, bucket string, paths []string) error {
	for start := 0; start < len(paths); start += maxBatchSize {
		end := min(start+maxBatchSize, len(paths))
		chunk := paths[start:end]

		objects := make([]types.ObjectIdentifier, len(chunk))
		for i, key := range chunk {
			objects[i] = types.ObjectIdentifier{Key: aws.String(key)}
		}

		out, err := r.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return &Error{Op: "remove batch", Bucket: bucket, Paths: chunk, Err: err}
		}

		// A 200 response can still carry per key failures
		if out != nil && len(out.Errors) > 0 {
			failed := make([]string, 0, len(out.Errors))
			for _, e := range out.Errors {
				failed = append(failed, aws.ToString(e.Key))
			}

			first := out.Errors[0]
			return &Error{
				Op:     "remove batch",
				Bucket: bucket,
				Paths:  failed,
				Err:    fmt.Errorf("%s: %s", aws.ToString(first.Code), aws.ToString(first.Message)),
			}
		}

		zap.L().Debug("Removed objects", zap.String("bucket", bucket), zap.Int("count", len(chunk)))
	}

	return nil
}
