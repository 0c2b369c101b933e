package fsx

import (
	"context"
	"errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Abraxas-365/wacloud/errx"
)

// S3API is the subset of the S3 client S3 uses
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3 reads objects of one bucket; paths are object keys
type S3 struct {
	client S3API
	bucket string
}

// NewS3 creates an S3 file system over bucket
func NewS3(client S3API, bucket string) *S3 {
	return &S3{client: client, bucket: bucket}
}

// NewS3FromEnv loads AWS credentials and region the standard way
func NewS3FromEnv(ctx context.Context, bucket string) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errx.Wrap(err, "Failed to load AWS configuration", errx.TypeInternal)
	}
	return NewS3(s3.NewFromConfig(cfg), bucket), nil
}

func (s *S3) ReadFile(ctx context.Context, key string) ([]byte, error) {
	return readAll(ctx, s, key)
}

func (s *S3) ReadFileStream(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, s.wrapErr(key, err)
	}
	return out.Body, nil
}

func (s *S3) Stat(ctx context.Context, key string) (FileInfo, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return FileInfo{}, s.wrapErr(key, err)
	}
	return FileInfo{
		Name:        path.Base(key),
		Size:        aws.ToInt64(out.ContentLength),
		ModTime:     aws.ToTime(out.LastModified),
		ContentType: aws.ToString(out.ContentType),
		Metadata:    out.Metadata,
	}, nil
}

func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Stat(ctx, key)
	if errx.IsCode(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *S3) wrapErr(key string, err error) error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return ErrorRegistry.New(ErrNotFound).
			WithDetail("bucket", s.bucket).
			WithDetail("key", key).
			WithCause(err)
	}
	return ErrorRegistry.New(ErrReadFailed).
		WithDetail("bucket", s.bucket).
		WithDetail("key", key).
		WithCause(err)
}

// Open picks the file system for uri: S3 for s3://bucket/key, the local
// disk otherwise. It returns the path to pass to the file system.
func Open(ctx context.Context, uri string) (FileSystem, string, error) {
	bucket, key, ok := SplitS3URI(uri)
	if !ok {
		return NewLocal(""), uri, nil
	}
	if bucket == "" || key == "" {
		return nil, "", ErrorRegistry.New(ErrInvalidURI).WithDetail("uri", uri)
	}
	fs, err := NewS3FromEnv(ctx, bucket)
	if err != nil {
		return nil, "", err
	}
	return fs, key, nil
}
