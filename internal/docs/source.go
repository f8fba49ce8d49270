package docs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/justsurfingit/careerkit/internal/config"
)

// Reference prefixes. r2://key reads from the configured bucket,
// s3://bucket/key names the bucket explicitly.
const (
	R2Prefix = "r2://"
	S3Prefix = "s3://"
)

// R2 reads and writes objects in a Cloudflare R2 bucket over the S3 API.
type R2 struct {
	client *s3.Client
	bucket string
}

// NewR2 builds an R2 client from static credentials.
func NewR2(ctx context.Context, cfg appconfig.R2Config) (*R2, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	return newR2(awsCfg, endpoint, cfg.Bucket), nil
}

func newR2(awsCfg aws.Config, endpoint, bucket string) *R2 {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	return &R2{client: client, bucket: bucket}
}

// Get downloads an object from the configured bucket, retrying transient
// failures.
func (r *R2) Get(ctx context.Context, key string) ([]byte, error) {
	return r.GetFrom(ctx, r.bucket, key)
}

func (r *R2) GetFrom(ctx context.Context, bucket, key string) ([]byte, error) {
	return Retry(ctx, 3, func() ([]byte, error) {
		out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get object: %w", err)
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, fmt.Errorf("failed to read object body: %w", err)
		}
		return buf.Bytes(), nil
	})
}

// Put uploads data under key and returns its r2:// reference.
func (r *R2) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := Retry(ctx, 3, func() (*s3.PutObjectOutput, error) {
		return r.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(r.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}
	return R2Prefix + key, nil
}

// Source resolves document references: r2:// and s3:// go to object
// storage, anything else is a local path.
type Source struct {
	R2 *R2
}

func (s Source) ReadFile(ctx context.Context, ref string) ([]byte, error) {
	if key, ok := strings.CutPrefix(ref, R2Prefix); ok {
		if s.R2 == nil {
			return nil, fmt.Errorf("%s: R2 storage is not configured", ref)
		}
		return s.R2.Get(ctx, key)
	}
	if rest, ok := strings.CutPrefix(ref, S3Prefix); ok {
		if s.R2 == nil {
			return nil, fmt.Errorf("%s: R2 storage is not configured", ref)
		}
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return nil, fmt.Errorf("invalid object reference %q, want s3://bucket/key", ref)
		}
		return s.R2.GetFrom(ctx, bucket, key)
	}
	return os.ReadFile(ref)
}

// Text loads a document and extracts its plain text.
func (s Source) Text(ctx context.Context, ref string) (string, error) {
	data, err := s.ReadFile(ctx, ref)
	if err != nil {
		return "", err
	}
	return ExtractText(data)
}
