package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

const (
	// MaxLogoFileSize is the maximum allowed organization logo size (2MB).
	MaxLogoFileSize = 2 * 1024 * 1024
	// FolderLogos is the S3 prefix for organization logos.
	FolderLogos = "logos"
)

// Allowed logo MIME types and extensions.
var (
	AllowedLogoTypes = map[string]string{
		"image/jpeg": ".jpg",
		"image/jpg":  ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
		"image/gif":  ".gif",
	}
	AllowedLogoExtensions = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".webp": "image/webp",
		".gif":  "image/gif",
	}
)

// S3Config holds S3 client configuration.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	LogosBucket     string
}

// S3 uploads organization logos.
type S3 struct {
	uploader *manager.Uploader
	client   *s3.Client
	cfg      S3Config
	logger   *zap.Logger
}

// NewS3 creates an S3 client. Static credentials are used when both keys are
// set; otherwise the default AWS credential chain applies.
func NewS3(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)))
		logger.Info("S3 client using static credentials", zap.String("region", cfg.Region), zap.String("logos_bucket", cfg.LogosBucket))
	} else {
		logger.Warn("S3 client using default credential chain")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return &S3{
		uploader: manager.NewUploader(client),
		client:   client,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// LogoContentType returns the MIME type to store a logo under, or "" if
// neither contentType nor the filename extension is an allowed image type.
func LogoContentType(contentType, filename string) string {
	if contentType != "" {
		ct := strings.ToLower(contentType)
		if _, ok := AllowedLogoTypes[ct]; ok {
			if ct == "image/jpg" {
				return "image/jpeg"
			}
			return ct
		}
	}
	if ct, ok := AllowedLogoExtensions[strings.ToLower(path.Ext(filename))]; ok {
		return ct
	}
	return ""
}

// LogoKey returns the S3 object key for a logo: logos/{organization_id}/{object_id}{ext}.
func LogoKey(organizationID, objectID, contentType string) string {
	return path.Join(FolderLogos, organizationID, objectID+AllowedLogoTypes[contentType])
}

// PublicObjectURL returns the public URL of an object in the logos bucket.
func (s *S3) PublicObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.LogosBucket, s.cfg.Region, key)
}

// UploadLogo streams a logo to the logos bucket with public-read ACL and returns its URL.
func (s *S3) UploadLogo(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.LogosBucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	}
	if contentLength > 0 {
		input.ContentLength = aws.Int64(contentLength)
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	s.logger.Info("logo uploaded", zap.String("key", key))
	return s.PublicObjectURL(key), nil
}

// DeleteLogo removes a previously uploaded logo.
func (s *S3) DeleteLogo(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.LogosBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// KeyFromURL returns the object key of a URL produced by PublicObjectURL, or "" if url is not in the logos bucket.
func (s *S3) KeyFromURL(url string) string {
	prefix := s.PublicObjectURL("")
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}
