package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/citigov/smartcity/config"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

const (
	// MaxImageSize caps a decoded submission at 5 MB.
	MaxImageSize = 5 * 1024 * 1024

	thumbnailWidth = 200
	feedMaxEdge    = 1080
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// MediaService stores submitted photos. With an S3 bucket configured the
// original and a thumbnail are uploaded and the public URL comes back;
// without one the data URI is returned unchanged so the prototype runs
// with no cloud credentials.
type MediaService interface {
	StoreComplaintImage(ctx context.Context, userID uint, dataURI string) (string, error)
	StoreProfileImage(ctx context.Context, userID uint, dataURI string) (string, error)
}

type mediaService struct {
	Config *config.Config
}

func NewMediaService(conf *config.Config) MediaService {
	return &mediaService{Config: conf}
}

// decodeDataURI splits a data: URI into mime type and raw bytes.
func decodeDataURI(dataURI string) (string, []byte, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return "", nil, fmt.Errorf("not a data URI")
	}
	semi := strings.Index(dataURI, ";base64,")
	if semi == -1 {
		return "", nil, fmt.Errorf("unsupported data URI encoding")
	}
	mimeType := dataURI[len("data:"):semi]
	raw, err := base64.StdEncoding.DecodeString(dataURI[semi+len(";base64,"):])
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %v", err)
	}
	return mimeType, raw, nil
}

func validateImage(mimeType string, raw []byte) error {
	if len(raw) > MaxImageSize {
		return fmt.Errorf("file size exceeds limit of %d bytes", MaxImageSize)
	}
	if !allowedImageTypes[mimeType] {
		return fmt.Errorf("invalid file type: %s", mimeType)
	}
	return nil
}

func (m *mediaService) createS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(m.Config.AwsRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			m.Config.AwsAccessKeyID,
			m.Config.AwsSecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func (m *mediaService) uploadToS3(ctx context.Context, client *s3.Client, key string, body []byte, mimeType string) (string, error) {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.Config.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(mimeType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Config.S3Bucket, m.Config.AwsRegion, key), nil
}

// processImage re-encodes the photo capped at the feed edge plus a small
// thumbnail for list views.
func processImage(raw []byte) ([]byte, []byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("decoding image: %v", err)
	}

	feedImg := imaging.Fit(img, feedMaxEdge, feedMaxEdge, imaging.Lanczos)
	thumbnail := resize.Resize(thumbnailWidth, 0, img, resize.Lanczos3)

	var feedBuf, thumbBuf bytes.Buffer
	if err := jpeg.Encode(&feedBuf, feedImg, &jpeg.Options{Quality: 85}); err != nil {
		return nil, nil, err
	}
	if err := jpeg.Encode(&thumbBuf, thumbnail, &jpeg.Options{Quality: 75}); err != nil {
		return nil, nil, err
	}
	return feedBuf.Bytes(), thumbBuf.Bytes(), nil
}

func (m *mediaService) store(ctx context.Context, folder string, userID uint, dataURI string) (string, error) {
	mimeType, raw, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	if err := validateImage(mimeType, raw); err != nil {
		return "", err
	}

	if m.Config.S3Bucket == "" {
		// No bucket configured: the record keeps the inline payload.
		return dataURI, nil
	}

	feed, thumb, err := processImage(raw)
	if err != nil {
		return "", err
	}

	client, err := m.createS3Client(ctx)
	if err != nil {
		return "", err
	}

	name := uuid.New().String()
	key := fmt.Sprintf("%s/%d/%s.jpg", folder, userID, name)
	thumbKey := fmt.Sprintf("%s/%d/%s_thumb.jpg", folder, userID, name)

	url, err := m.uploadToS3(ctx, client, key, feed, "image/jpeg")
	if err != nil {
		return "", err
	}
	if _, err := m.uploadToS3(ctx, client, thumbKey, thumb, "image/jpeg"); err != nil {
		log.Printf("thumbnail upload failed for %s: %v", key, err)
	}
	return url, nil
}

func (m *mediaService) StoreComplaintImage(ctx context.Context, userID uint, dataURI string) (string, error) {
	return m.store(ctx, "complaints", userID, dataURI)
}

func (m *mediaService) StoreProfileImage(ctx context.Context, userID uint, dataURI string) (string, error) {
	return m.store(ctx, "profiles", userID, dataURI)
}
