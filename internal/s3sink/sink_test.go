package s3sink

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	bucket, key string
	body        []byte
	failWith    error
}

func (f *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	f.bucket = aws.ToString(input.Bucket)
	f.key = aws.ToString(input.Key)
	if f.failWith != nil {
		return nil, f.failWith
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &manager.UploadOutput{Key: input.Key}, nil
}

func TestParseURL(t *testing.T) {
	bucket, key, err := ParseURL("s3://my-bucket/backups/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "backups/report.pdf", key)

	for _, bad := range []string{"s3://", "s3:///key", "s3://bucket", "s3://bucket/", "s3://bucket/dir/", "/tmp/out.bin"} {
		_, _, err := ParseURL(bad)
		assert.Error(t, err, bad)
	}
}

func TestIsS3URL(t *testing.T) {
	assert.True(t, IsS3URL("s3://b/k"))
	assert.False(t, IsS3URL("out.bin"))
	assert.False(t, IsS3URL("-"))
}

func TestSinkUploadsWrittenBytes(t *testing.T) {
	up := &fakeUploader{}
	sink := newSink(context.Background(), up, "bucket", "dir/file.bin")

	_, err := sink.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = sink.Write([]byte("world"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	assert.Equal(t, "bucket", up.bucket)
	assert.Equal(t, "dir/file.bin", up.key)
	assert.Equal(t, []byte("hello world"), up.body)
}

func TestSinkAbortDropsUpload(t *testing.T) {
	up := &fakeUploader{}
	sink := newSink(context.Background(), up, "bucket", "file.bin")

	_, err := sink.Write([]byte("partial"))
	require.NoError(t, err)
	sink.Abort(errors.New("download failed"))

	assert.Nil(t, up.body)
}

func TestSinkWriteFailsWhenUploadFails(t *testing.T) {
	up := &fakeUploader{failWith: errors.New("access denied")}
	sink := newSink(context.Background(), up, "bucket", "file.bin")

	err := sink.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")

	_, err = sink.Write(bytes.Repeat([]byte("x"), 10))
	assert.Error(t, err)
}
