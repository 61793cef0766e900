// Package aws builds the S3 client used to talk to the object store. Any S3
// compatible provider works, Supabase storage exposes one at
// <project>.supabase.co/storage/v1/s3
package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
)

// NewS3 creates a client for the configured endpoint. When
// storage.check_buckets is set every bucket in buckets must exist.
func NewS3(ctx context.Context, buckets ...string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("storage.access_key_id"),
			viper.GetString("storage.secret_access_key"),
			"",
		)),
		config.WithRegion(viper.GetString("storage.region")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config, %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(viper.GetString("storage.endpoint"))
		// Supabase and most self hosted stores don't support virtual hosted buckets
		o.UsePathStyle = true
	})

	if !viper.GetBool("storage.check_buckets") {
		return client, nil
	}

	for _, b := range buckets {
		if err := checkBucket(ctx, client, b); err != nil {
			return nil, err
		}
	}

	return client, nil
}

func checkBucket(ctx context.Context, client *s3.Client, bucket string) error {
	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return fmt.Errorf("bucket '%s' does not exist", bucket)
			}
		}

		return fmt.Errorf("failed to check if bucket '%s' exists, %w", bucket, err)
	}

	return nil
}
