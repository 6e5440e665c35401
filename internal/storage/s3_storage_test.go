package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Storage_Put(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StorageWithClient(client, "bucket", "us-west-1", "")

	url, err := store.Put(context.Background(), "backups/a.xlsx", "application/octet-stream", []byte("data"))
	require.NoError(t, err)

	assert.Equal(t, "https://bucket.s3.us-west-1.amazonaws.com/backups/a.xlsx", url)
	assert.Equal(t, "bucket", aws.ToString(client.input.Bucket))
	assert.Equal(t, "backups/a.xlsx", aws.ToString(client.input.Key))
	assert.Equal(t, int64(4), aws.ToInt64(client.input.ContentLength))
	assert.Equal(t, []byte("data"), client.body)
}

func TestS3Storage_PutError(t *testing.T) {
	store := NewS3StorageWithClient(&fakeS3{err: errors.New("AccessDenied")}, "bucket", "us-west-1", "")

	_, err := store.Put(context.Background(), "k", "text/plain", nil)
	assert.ErrorContains(t, err, "AccessDenied")
}

func TestS3Storage_ObjectURLWithBase(t *testing.T) {
	store := NewS3StorageWithClient(&fakeS3{}, "bucket", "us-west-1", "https://cdn.example.com")
	assert.Equal(t, "https://cdn.example.com/backups/x.xlsx", store.ObjectURL("backups/x.xlsx"))
}
