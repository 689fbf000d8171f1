package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/pkg/utils"
)

type S3Config struct {
	Endpoint      string
	Region        string
	PublicBaseURL string
}

type s3Uploader struct {
	uploader      *manager.Uploader
	client        *s3.Client
	publicBaseURL string
	cb            *gobreaker.CircuitBreaker
	logger        *zap.Logger
}

func NewS3Uploader(ctx context.Context, cfg S3Config, logger *zap.Logger) (Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = sdkaws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	settings := gobreaker.Settings{
		Name:        "ObjectStorage",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(
				"Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &s3Uploader{
		uploader:      manager.NewUploader(client),
		client:        client,
		publicBaseURL: cfg.PublicBaseURL,
		cb:            gobreaker.NewCircuitBreaker(settings),
		logger:        logger,
	}, nil
}

func (u *s3Uploader) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) (string, error) {
	_, err := utils.ExecuteWithBreaker(u.cb, func() (*manager.UploadOutput, error) {
		return u.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      sdkaws.String(bucket),
			Key:         sdkaws.String(key),
			Body:        body,
			ContentType: sdkaws.String(contentType),
		})
	})
	if err != nil {
		u.logger.Error(
			"object upload failed",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err),
		)

		return "", fmt.Errorf("failed to upload %s/%s: %w", bucket, key, err)
	}

	return fmt.Sprintf("%s/%s/%s", u.publicBaseURL, bucket, key), nil
}

func (u *s3Uploader) Remove(ctx context.Context, bucket, key string) error {
	_, err := utils.ExecuteWithBreaker(u.cb, func() (*s3.DeleteObjectOutput, error) {
		return u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: sdkaws.String(bucket),
			Key:    sdkaws.String(key),
		})
	})
	if err != nil {
		u.logger.Error(
			"object delete failed",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err),
		)

		return fmt.Errorf("failed to delete %s/%s: %w", bucket, key, err)
	}

	return nil
}
