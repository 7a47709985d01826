package contentstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore() *S3Store {
	return NewS3Store(Options{
		AccessKey:    "ak",
		SecretKey:    "sk",
		Bucket:       "noteguard-content",
		Region:       "ap-south-1",
		BaseEndpoint: "http://localhost:9000",
	})
}

func TestPresignGet(t *testing.T) {
	orig := presignGetObject
	defer func() { presignGetObject = orig }()

	var gotBucket, gotKey string
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotBucket = aws.ToString(in.Bucket)
		gotKey = aws.ToString(in.Key)
		return &v4.PresignedHTTPRequest{URL: "http://localhost:9000/noteguard-content/notes/n-1.pdf?sig=abc"}, nil
	}

	url, err := testStore().PresignGet(context.Background(), "notes/n-1.pdf", 30*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "noteguard-content", gotBucket)
	assert.Equal(t, "notes/n-1.pdf", gotKey)
	assert.Contains(t, url, "notes/n-1.pdf")
}

func TestPresignGet_Error(t *testing.T) {
	orig := presignGetObject
	defer func() { presignGetObject = orig }()

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign failed")
	}

	_, err := testStore().PresignGet(context.Background(), "notes/n-1.pdf", 30*time.Minute)
	assert.Error(t, err)
}
