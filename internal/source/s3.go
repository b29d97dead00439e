package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/woozymasta/obrasmap/internal/config"
	"github.com/woozymasta/obrasmap/internal/geo"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the part of the S3 client the source needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 reads the dataset from an object in S3-compatible storage.
type S3 struct {
	client ObjectGetter
	bucket string
	key    string
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid s3 url %q", raw)
	}

	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("s3 url %q has no object key", raw)
	}

	return u.Host, key, nil
}

// NewS3 builds a client from the default credential chain, or from static
// keys when they are configured.
func NewS3(ctx context.Context, raw string, cfg config.S3) (*S3, error) {
	bucket, key, err := ParseS3URL(raw)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewS3WithClient(client, bucket, key), nil
}

// NewS3WithClient wraps an existing client.
func NewS3WithClient(client ObjectGetter, bucket, key string) *S3 {
	return &S3{client: client, bucket: bucket, key: key}
}

func (s *S3) Name() string { return "s3://" + s.bucket + "/" + s.key }

func (s *S3) Load(ctx context.Context) (*geo.FeatureCollection, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = out.Body.Close() }()

	return geo.DecodeReader(out.Body)
}
