package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	appconfig "github.com/revendehq/revende_api/internal/config"
)

// StorageService stores profile photos in S3 and returns public URLs.
type StorageService struct {
	client        *s3.Client
	bucket        string
	region        string
	publicBaseURL string
}

// NewStorageService creates a StorageService from config. Returns an error
// when the bucket or credentials are not configured; callers treat that as
// "uploads disabled" rather than fatal.
func NewStorageService(cfg *appconfig.S3Config) (*StorageService, error) {
	if cfg == nil || cfg.Bucket == "" {
		return nil, errors.New("S3 bucket not configured")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("S3 credentials not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	return &StorageService{
		client:        s3.NewFromConfig(awsCfg),
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		publicBaseURL: cfg.PublicBaseURL,
	}, nil
}

// UploadProfilePhoto stores the decoded image bytes under a fresh key and
// returns the object's public URL.
func (s *StorageService) UploadProfilePhoto(ctx context.Context, userID int, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("profiles/%d/%s", userID, uuid.New().String())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload profile photo")
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	log.Info().Str("key", key).Int("bytes", len(data)).Msg("Profile photo uploaded")
	return s.objectURL(key), nil
}

func (s *StorageService) objectURL(key string) string {
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.publicBaseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
