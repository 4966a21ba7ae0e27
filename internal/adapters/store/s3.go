package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"imgresize/internal/core/domain"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput,
		optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

type S3Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
	Prefix       string
	PathStyle    bool
}

// S3 uploads batches to an S3 compatible bucket.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
	now    func() time.Time
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("missing S3 bucket")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return &S3{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, now: time.Now}, nil
}

func (s *S3) Persist(ctx context.Context, images []domain.EncodedImage) (string, error) {
	files, err := decodeAll(images)
	if err != nil {
		return "", err
	}

	keyPrefix, err := s.batchKey()
	if err != nil {
		return "", err
	}

	for i, data := range files {
		key := path.Join(keyPrefix, fileName(i))

		_, err := putObject(s.client, ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("image/jpeg"),
		})
		if err != nil {
			log.Error().Err(err).Str("bucket", s.bucket).Str("key", key).Msg("failed to upload image")
			return "", fmt.Errorf("error uploading image %d: %w", i, err)
		}
	}

	log.Info().Str("bucket", s.bucket).Str("prefix", keyPrefix).Int("count", len(files)).Msg("uploaded images")

	return fmt.Sprintf("Successfully uploaded %d images to s3://%s/%s", len(files), s.bucket, keyPrefix), nil
}

func (s *S3) batchKey() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate batch id: %w", err)
	}

	d := s.now()
	return path.Join(s.prefix, fmt.Sprintf("%d/%02d/%02d", d.Year(), d.Month(), d.Day()), id.String()), nil
}
