package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putIn  *s3.PutObjectInput
	putErr error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putIn = params
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func newTestS3(api s3API) *S3 {
	return newS3WithClient(api, S3Options{
		Bucket:       "artefacts",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000/",
	})
}

func TestS3_Save(t *testing.T) {
	fake := &fakeS3{}
	s := newTestS3(fake)

	url, localPath, err := s.Save(context.Background(), "ring.png", []byte("imgdata"))
	require.NoError(t, err)

	assert.Empty(t, localPath, "object-store images have no local path")
	assert.True(t, strings.HasPrefix(url, "http://127.0.0.1:9000/artefacts/artefacts/"))
	assert.True(t, strings.HasSuffix(url, "_ring.png"))

	require.NotNil(t, fake.putIn)
	assert.Equal(t, "artefacts", *fake.putIn.Bucket)
	body, err := io.ReadAll(fake.putIn.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("imgdata"), body)
}

func TestS3_Save_KeysAreUnique(t *testing.T) {
	fake := &fakeS3{}
	s := newTestS3(fake)

	url1, _, err := s.Save(context.Background(), "ring.png", []byte("a"))
	require.NoError(t, err)
	url2, _, err := s.Save(context.Background(), "ring.png", []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, url1, url2)
}

func TestS3_Save_Error(t *testing.T) {
	fake := &fakeS3{putErr: errors.New("bucket gone")}
	s := newTestS3(fake)

	_, _, err := s.Save(context.Background(), "ring.png", []byte("x"))
	assert.Error(t, err)
}

func TestS3_DeleteIsNoop(t *testing.T) {
	s := newTestS3(&fakeS3{})
	assert.NoError(t, s.Delete(context.Background(), ""))
}
