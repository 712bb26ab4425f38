package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/nafcode/product-registry/internal/config"
)

// ImageStore persists a generated code image and returns the public URL
// clients fetch it from.
type ImageStore interface {
	Put(ctx context.Context, filename string, data []byte) (string, error)
}

// NewImageStore selects the storage backend: S3 when AWS credentials are
// configured, the local QR directory otherwise.
func NewImageStore(cfg *config.Config) (ImageStore, error) {
	if cfg.AWS.AccessKeyID == "" {
		return NewLocalImageStore(cfg.App.QRCodeDir, cfg.App.QRPublicPath), nil
	}
	return NewS3ImageStore(cfg)
}

type localImageStore struct {
	dir        string
	publicPath string
}

func NewLocalImageStore(dir, publicPath string) ImageStore {
	return &localImageStore{dir: dir, publicPath: publicPath}
}

// Put writes the image under the configured directory. MkdirAll tolerates
// the directory already existing, so concurrent first registrations racing
// on creation both succeed. The filename is caller-supplied and used
// verbatim; re-registering an identifier overwrites the previous image.
func (s *localImageStore) Put(_ context.Context, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	target := filepath.Join(s.dir, filename)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return path.Join(s.publicPath, filename), nil
}

type s3ImageStore struct {
	s3Client *s3.S3
	cfg      *config.Config
}

func NewS3ImageStore(cfg *config.Config) (ImageStore, error) {
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

	return &s3ImageStore{
		s3Client: s3.New(sess),
		cfg:      cfg,
	}, nil
}

func (s *s3ImageStore) Put(ctx context.Context, filename string, data []byte) (string, error) {
	key := "qr_codes/" + filename

	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AWS.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/png"),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}

	if s.cfg.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.cfg.AWS.CloudFrontURL, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.cfg.AWS.S3Bucket, s.cfg.AWS.Region, key), nil
}
