// internal/storage/storage.go
package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/lacra/agritrace-backend/internal/config"
)

type Object struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

// Store archives rendered documents such as batch labels.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (*Object, error)
}

// New selects the store named by cfg.Storage.Driver.
func New(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case "s3":
		sess, err := session.NewSession(&aws.Config{
			Region: aws.String(cfg.AWS.Region),
			Credentials: credentials.NewStaticCredentials(
				cfg.AWS.AccessKeyID,
				cfg.AWS.SecretAccessKey,
				"",
			),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %w", err)
		}
		return NewS3Store(s3.New(sess), cfg.AWS), nil
	case "local", "":
		return NewLocalStore(cfg.Storage.LocalPath, cfg.Storage.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// LabelKey places labels under their harvest date stamp.
func LabelKey(dateStamp, fileName string) string {
	return path.Join("labels", dateStamp, fileName)
}

type S3Store struct {
	client s3iface.S3API
	cfg    config.AWSConfig
}

func NewS3Store(client s3iface.S3API, cfg config.AWSConfig) *S3Store {
	return &S3Store{client: client, cfg: cfg}
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, data []byte) (*Object, error) {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &Object{
		URL:      s.url(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *S3Store) url(key string) string {
	if s.cfg.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.CloudFrontURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.S3Bucket, s.cfg.Region, key)
}

// LocalStore writes under root for development; files are served from baseURL.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Put(ctx context.Context, key, contentType string, data []byte) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean := path.Clean("/" + key)[1:]
	if clean == "" {
		return nil, fmt.Errorf("invalid storage key %q", key)
	}
	dest := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &Object{
		URL:      s.baseURL + "/" + clean,
		Key:      clean,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}
