// Package s3sink streams a download straight into an S3 object.
package s3sink

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Sink is an io.Writer whose bytes become the body of one S3 object.
// Close finishes the upload; Abort discards it.
type Sink struct {
	Bucket string
	Key    string
	pw     *io.PipeWriter
	done   chan error
}

func IsS3URL(raw string) bool {
	return strings.HasPrefix(raw, "s3://")
}

func ParseURL(raw string) (string, string, error) {
	if !IsS3URL(raw) {
		return "", "", fmt.Errorf("not an S3 URL: %s", raw)
	}
	parts := strings.SplitN(strings.TrimPrefix(raw, "s3://"), "/", 2)
	if parts[0] == "" {
		return "", "", fmt.Errorf("invalid S3 URL format: missing bucket")
	}
	if len(parts) < 2 || parts[1] == "" || strings.HasSuffix(parts[1], "/") {
		return "", "", fmt.Errorf("invalid S3 URL format: missing object key")
	}
	return parts[0], parts[1], nil
}

// New opens an upload to the object named by raw (s3://bucket/key). An
// empty profile uses the default credential chain.
func New(ctx context.Context, raw, profile string) (*Sink, error) {
	bucket, key, err := ParseURL(raw)
	if err != nil {
		return nil, err
	}
	client, err := getS3Client(ctx, profile)
	if err != nil {
		return nil, err
	}
	return newSink(ctx, manager.NewUploader(client), bucket, key), nil
}

func getS3Client(ctx context.Context, profile string) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRetryMode(aws.RetryModeAdaptive)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func newSink(ctx context.Context, up uploader, bucket, key string) *Sink {
	pr, pw := io.Pipe()
	s := &Sink{Bucket: bucket, Key: key, pw: pw, done: make(chan error, 1)}
	go func() {
		_, err := up.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   pr,
		})
		// unblock a writer if the upload gave up early
		pr.CloseWithError(err)
		s.done <- err
	}()
	log.Debug().Str("op", "s3sink").Msgf("upload started for s3://%s/%s", bucket, key)
	return s
}

func (s *Sink) Write(p []byte) (int, error) {
	return s.pw.Write(p)
}

func (s *Sink) Close() error {
	s.pw.Close()
	if err := <-s.done; err != nil {
		return fmt.Errorf("error uploading s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	log.Debug().Str("op", "s3sink").Msgf("upload finished for s3://%s/%s", s.Bucket, s.Key)
	return nil
}

// Abort fails the body stream with cause so the uploader drops the object.
func (s *Sink) Abort(cause error) {
	s.pw.CloseWithError(cause)
	<-s.done
}
