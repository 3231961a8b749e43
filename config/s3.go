package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const s3Prefix = "s3_"

// S3Settings locate a feed config object in S3 compatible storage
type S3Settings struct {
	AccessKeyID     string `json:"aws_access_key_id"`
	SecretAccessKey string `json:"aws_secret_access_key"`
	Bucket          string `json:"s3_bucket"`
	Object          string `json:"s3_filename"`
	Endpoint        string `json:"endpoint"`
	Region          string `json:"region"`
	Insecure        bool   `json:"insecure"`
}

// SyncAttempts is the number of downloads tried before a sync fails
var SyncAttempts uint64 = 3

// S3Loader downloads the feed config before reading it from disk
type S3Loader struct {
	SettingsPath string
	File         *FileLoader
}

// ReadS3Settings reads and checks a settings file
func ReadS3Settings(path string) (*S3Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading s3 settings: %w", err)
	}
	settings := S3Settings{}
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("%w: error parsing s3 settings %s: %v", ErrInvalid, path, err)
	}
	if settings.Endpoint == "" {
		settings.Endpoint = "s3.amazonaws.com"
	}
	if settings.Bucket == "" || settings.Object == "" {
		return nil, fmt.Errorf("%w: s3_bucket and s3_filename are required", ErrInvalid)
	}
	return &settings, nil
}

// Load implements Loader
func (l *S3Loader) Load(ctx context.Context) (*Feed, error) {
	settings, err := ReadS3Settings(l.SettingsPath)
	if err != nil {
		return nil, err
	}
	client, err := minio.New(settings.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(settings.AccessKeyID, settings.SecretAccessKey, ""),
		Secure: !settings.Insecure,
		Region: settings.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating s3 client: %w", err)
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 5 * time.Second
	retries := uint64(0)
	if SyncAttempts > 1 {
		retries = SyncAttempts - 1
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
	err = backoff.Retry(func() error {
		reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		return client.FGetObject(reqCtx, settings.Bucket, settings.Object, l.File.Path, minio.GetObjectOptions{})
	}, policy)
	if err != nil {
		return nil, fmt.Errorf("error syncing config from s3://%s/%s: %w", settings.Bucket, settings.Object, err)
	}
	return l.File.Load(ctx)
}
