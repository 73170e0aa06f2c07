package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var ErrObjectNotFound = errors.New("object not found")

type BucketConfig struct {
	// AccountID builds the R2 endpoint when Endpoint is empty.
	AccountID       string
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	Prefix          string
	Timeout         time.Duration
}

// BucketStorage reads JSON snapshots from an S3 compatible bucket.
type BucketStorage struct {
	client     *s3.Client
	bucketName string
	prefix     string
	timeout    time.Duration
}

func NewBucketStorage(ctx context.Context, bc BucketConfig) (*BucketStorage, error) {
	endpoint := bc.Endpoint
	if endpoint == "" {
		if bc.AccountID == "" {
			return nil, fmt.Errorf("bucket endpoint or account id is required")
		}
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", bc.AccountID)
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(bc.AccessKeyID, bc.AccessKeySecret, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(strings.TrimSuffix(endpoint, "/"))
		o.UsePathStyle = true
	})

	timeout := bc.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BucketStorage{
		client:     client,
		bucketName: bc.BucketName,
		prefix:     bc.Prefix,
		timeout:    timeout,
	}, nil
}

// GetObject returns the body stored under prefix+key.
func (s *BucketStorage) GetObject(ctx context.Context, key string) ([]byte, error) {
	readCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.client.GetObject(readCtx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to read %s from bucket: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s body: %w", key, err)
	}
	return data, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
