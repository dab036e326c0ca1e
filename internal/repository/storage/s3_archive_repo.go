package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	cfg "github.com/droneflow/droneflow-backend/internal/config"
	"github.com/droneflow/droneflow-backend/internal/domain"
)

const archivePrefix = "closed-months"

// objectStore is the subset of the S3 client the exporter needs
type objectStore interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ArchiveRepository mirrors closed-month archives as JSON documents in S3.
// It implements domain.ArchiveExporter.
type S3ArchiveRepository struct {
	client objectStore
	bucket string
}

// archiveDocument is the stored form of an archive. The month key is
// spelled out because ClosedMonth does not serialize it.
type archiveDocument struct {
	MonthYear string `json:"monthYear"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	domain.ClosedMonth
}

// NewS3ArchiveRepository creates the exporter and makes sure the bucket exists
func NewS3ArchiveRepository(ctx context.Context, s3cfg cfg.S3Config) (*S3ArchiveRepository, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(s3cfg.Region),
	}
	if s3cfg.AccessKeyID != "" && s3cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s3cfg.AccessKeyID, s3cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Endpoint override for MinIO/LocalStack
	var client *s3.Client
	if s3cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s3cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	repo := newS3ArchiveRepository(client, s3cfg.Bucket)
	if err := repo.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func newS3ArchiveRepository(client objectStore, bucket string) *S3ArchiveRepository {
	return &S3ArchiveRepository{client: client, bucket: bucket}
}

// ensureBucket creates the bucket if it doesn't exist. The bucket stays private.
func (r *S3ArchiveRepository) ensureBucket(ctx context.Context) error {
	_, err := r.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(r.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket (may be permission denied): %w", err)
	}

	if _, err := r.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(r.bucket)}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// ArchiveObjectKey returns the object path of a month's archive, e.g. closed-months/2024/03.json
func ArchiveObjectKey(key domain.MonthKey) string {
	return fmt.Sprintf("%s/%04d/%02d.json", archivePrefix, key.Year, key.Month)
}

// Export writes the archive document, replacing any previous copy
func (r *S3ArchiveRepository) Export(ctx context.Context, month domain.ClosedMonth) error {
	body, err := json.Marshal(archiveDocument{
		MonthYear:   month.Key.String(),
		Year:        month.Key.Year,
		Month:       month.Key.Month,
		ClosedMonth: month,
	})
	if err != nil {
		return fmt.Errorf("failed to encode archive: %w", err)
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(ArchiveObjectKey(month.Key)),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload archive: %w", err)
	}
	return nil
}

// Remove deletes the archive document of a reopened month
func (r *S3ArchiveRepository) Remove(ctx context.Context, key domain.MonthKey) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(ArchiveObjectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete archive: %w", err)
	}
	return nil
}
