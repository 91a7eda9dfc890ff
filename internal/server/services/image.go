package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mlorenc/gotodo/internal/common"
	"github.com/mlorenc/gotodo/internal/logging"
	"github.com/mlorenc/gotodo/internal/server/models"
	sc "github.com/mlorenc/gotodo/internal/server/config"
	"github.com/mlorenc/gotodo/internal/server/repositories/repomanager"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	imageMaxWidth  = 800
	imageMaxHeight = 600

	presignedURLValidity = 15 * time.Minute
)

// allowedImageMIMETypes are the upload formats accepted before processing.
// Detection runs on the file content (magic bytes), never on the client's
// declared content type.
var allowedImageMIMETypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ImageService validates, processes and stores image attachments. Blobs
// live in the S3-compatible backend; only metadata rows hit the database.
type ImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

func NewImageService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *ImageService {
	return &ImageService{db: db, repomanager: m, config: cfg, logger: logger}
}

// MakeStorageKey builds a date-prefixed random object key.
func MakeStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("todos/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ImageService) getS3Client() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	}), nil
}

// Upload validates the raw file, scales it down to fit 800x600, re-encodes
// it as PNG, stores the blob and persists a metadata row. Oversized,
// non-image, or undecodable input yields common.ErrorValidation.
func (s *ImageService) Upload(ctx context.Context, originalName string, data []byte) (*models.Image, error) {
	if int64(len(data)) > s.config.MaxUploadBytes {
		return nil, common.ErrorValidation
	}

	mtype := mimetype.Detect(data)
	allowed := false
	for _, want := range allowedImageMIMETypes {
		if mtype.Is(want) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, common.ErrorValidation
	}

	decoded, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, common.ErrorValidation
	}

	resized := imaging.Fit(decoded, imageMaxWidth, imageMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, common.ErrorInternal
	}

	client, err := s.getS3Client()
	if err != nil {
		return nil, common.ErrorInternal
	}

	key := MakeStorageKey()
	bucket := s.config.S3Bucket

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/png"),
	}); err != nil {
		return nil, fmt.Errorf("error storing image blob: %w", err)
	}

	repo := s.repomanager.Images(s.db)
	image, err := repo.Create(ctx, &models.Image{
		StorageKey:   key,
		OriginalName: originalName,
		Size:         int64(buf.Len()),
	})
	if err != nil {
		return nil, fmt.Errorf("error storing image metadata: %w", err)
	}
	return image, nil
}

// GetURL returns a presigned GET URL for the stored blob.
func (s *ImageService) GetURL(ctx context.Context, id int64) (string, error) {
	repo := s.repomanager.Images(s.db)
	image, err := repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	client, err := s.getS3Client()
	if err != nil {
		return "", common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &image.StorageKey,
	}, s3.WithPresignExpires(presignedURLValidity))
	if err != nil {
		return "", fmt.Errorf("error presigning image url: %w", err)
	}
	return req.URL, nil
}

// Delete removes the blob and the metadata row. A failed blob delete is
// logged and the metadata row is removed anyway, so a lost object cannot
// wedge the record forever.
func (s *ImageService) Delete(ctx context.Context, id int64) error {
	repo := s.repomanager.Images(s.db)
	image, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	client, err := s.getS3Client()
	if err != nil {
		return common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	if _, err := deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &image.StorageKey,
	}); err != nil {
		s.logger.Warn(ctx, "failed to delete image blob", "key", image.StorageKey, "error", err.Error())
	}

	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting image metadata: %w", err)
	}
	return nil
}
