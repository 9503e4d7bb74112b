package stream

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const s3Scheme = "s3://"

// S3Config holds object storage credentials for s3:// paths.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// IsS3 reports whether path names an object (s3://bucket/key).
func IsS3(path string) bool { return strings.HasPrefix(path, s3Scheme) }

// SplitS3 returns the bucket and key of an s3:// path.
func SplitS3(path string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(path, s3Scheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || strings.TrimLeft(key, "/") == "" {
		return "", "", fmt.Errorf("invalid object path %q (want s3://bucket/key)", path)
	}
	return bucket, strings.TrimLeft(key, "/"), nil
}

func newS3Client(cfg S3Config) (*minio.Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required for s3:// paths")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return client, nil
}

func openS3(ctx context.Context, client *minio.Client, path string) (*minio.Object, error) {
	bucket, key, err := SplitS3(path)
	if err != nil {
		return nil, err
	}
	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat surfaces a missing object before the first read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, fmt.Errorf("open %s: object does not exist", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return obj, nil
}

func uploadS3(ctx context.Context, client *minio.Client, path, localFile string) error {
	bucket, key, err := SplitS3(path)
	if err != nil {
		return err
	}
	_, err = client.FPutObject(ctx, bucket, key, localFile, minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	return nil
}
