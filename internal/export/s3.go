// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export uploads archive exports to an S3-compatible bucket (AWS S3
// or MinIO).
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pdiddy/clingen/pkg/types"
)

// DefaultRegion is used when the configuration leaves the region empty.
const DefaultRegion = "us-east-1"

// ErrNoBucket is returned by New when no bucket is configured.
var ErrNoBucket = errors.New("export.s3.bucket is not set")

// PutObjectAPI is the subset of *s3.Client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader writes objects into a single bucket.
type Uploader struct {
	client PutObjectAPI
	bucket string
}

// NewUploader wraps an existing client.
func NewUploader(client PutObjectAPI, bucket string) *Uploader {
	return &Uploader{client: client, bucket: bucket}
}

// New builds an S3 client from cfg. Static credentials are used when both
// key fields are set; otherwise the default AWS credential chain applies.
// optFns are applied to the client options after the endpoint settings.
func New(ctx context.Context, cfg types.S3Config, optFns ...func(*s3.Options)) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		for _, fn := range optFns {
			fn(o)
		}
	})
	return NewUploader(client, cfg.Bucket), nil
}

// Bucket returns the destination bucket.
func (u *Uploader) Bucket() string { return u.bucket }

// Upload stores data under key and returns its s3:// location.
func (u *Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", errors.New("object key is empty")
	}

	in := &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := u.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("uploading s3://%s/%s: %w", u.bucket, key, err)
	}
	return "s3://" + u.bucket + "/" + key, nil
}

// ContentType returns the MIME type for an archive export format.
func ContentType(format string) string {
	if format == "json" {
		return "application/json"
	}
	return "application/yaml"
}
