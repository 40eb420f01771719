package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/campaigngrade-hub/campaigngrade1/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	puts    map[string]string
	deletes []string
	putErr  error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	raw, _ := io.ReadAll(in.Body)
	if f.puts == nil {
		f.puts = map[string]string{}
	}
	f.puts[*in.Bucket+"/"+*in.Key] = string(raw)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeObjects) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

type fakePresigner struct {
	expires time.Duration
}

func (f *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://storage.test/" + *in.Bucket + "/" + *in.Key + "?X-Amz-Signature=abc"}, nil
}

func TestS3StorePutAndDelete(t *testing.T) {
	objects := &fakeObjects{}
	store := &S3Store{client: objects, presign: &fakePresigner{}, bucket: "verification-evidence"}
	ctx := context.Background()

	err := store.Put(ctx, ports.EvidenceObject{Key: "p1/123.pdf", ContentType: "application/pdf", Size: 3, Body: strings.NewReader("pdf")})
	require.NoError(t, err)
	assert.Equal(t, "pdf", objects.puts["verification-evidence/p1/123.pdf"])

	require.NoError(t, store.Delete(ctx, "p1/123.pdf"))
	require.NoError(t, store.Delete(ctx, ""))
	assert.Equal(t, []string{"p1/123.pdf"}, objects.deletes)
}

func TestS3StorePutWrapsFailure(t *testing.T) {
	store := &S3Store{client: &fakeObjects{putErr: errors.New("boom")}, bucket: "b"}
	err := store.Put(context.Background(), ports.EvidenceObject{Key: "k", Body: strings.NewReader("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 put k")
}

func TestS3StorePresignUsesTTL(t *testing.T) {
	presigner := &fakePresigner{}
	store := &S3Store{client: &fakeObjects{}, presign: presigner, bucket: "verification-evidence"}

	url, err := store.PresignGet(context.Background(), "p1/review-9.png", 5*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "verification-evidence/p1/review-9.png")
	assert.Equal(t, 5*time.Minute, presigner.expires)
}
