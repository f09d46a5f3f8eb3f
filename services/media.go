package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

const tmdbImageBase = "https://image.tmdb.org/t/p/original"

// MediaService stores challenge stills in object storage and builds the URLs the
// API hands out. When no MinIO endpoint is configured it degrades to serving the
// upstream CDN paths directly.
type MediaService struct {
	appContext.DefaultService

	client     *minio.Client
	httpClient *http.Client

	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool
	publicBase string
}

const MEDIA_SVC = "media_svc"

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *appContext.Context) error {
	svc.endpoint = os.Getenv("MINIO_ENDPOINT")
	svc.accessKey = os.Getenv("MINIO_ACCESS_KEY")
	svc.secretKey = os.Getenv("MINIO_SECRET_KEY")
	svc.useSSL = os.Getenv("MINIO_USE_SSL") == "true"

	svc.bucketName = os.Getenv("MINIO_BUCKET_NAME")
	if svc.bucketName == "" {
		svc.bucketName = "stillframe-stills"
	}

	svc.publicBase = os.Getenv("MEDIA_PUBLIC_BASE_URL")

	svc.httpClient = &http.Client{Timeout: 30 * time.Second}

	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	if svc.endpoint == "" {
		log.Println("MinIO endpoint not configured, serving stills from the upstream CDN")
		return nil
	}

	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}

	svc.client = client

	if err := svc.ensureBucket(); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	log.Printf("Media service started with endpoint: %s", svc.endpoint)
	return nil
}

func (svc *MediaService) ensureBucket() error {
	ctx := context.Background()

	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{})
}

// ImageURL resolves a stored file path to a servable URL. Absolute paths pass
// through; mirrored objects resolve against the public base; everything else falls
// back to the TMDB CDN.
func (svc *MediaService) ImageURL(filePath string) string {
	if strings.HasPrefix(filePath, "http") {
		return filePath
	}

	if svc.client != nil && svc.publicBase != "" {
		return fmt.Sprintf("%s/%s%s", strings.TrimRight(svc.publicBase, "/"), svc.bucketName, filePath)
	}

	return tmdbImageBase + filePath
}

// MirrorImage copies a TMDB backdrop into the bucket under its CDN file path.
// No-op when object storage is disabled.
func (svc *MediaService) MirrorImage(ctx context.Context, filePath string) error {
	if svc.client == nil {
		return nil
	}

	resp, err := svc.httpClient.Get(tmdbImageBase + filePath)
	if err != nil {
		return fmt.Errorf("failed to fetch still %s: %w", filePath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d fetching still %s", resp.StatusCode, filePath)
	}

	objectName := strings.TrimPrefix(filePath, "/")
	_, err = svc.client.PutObject(ctx, svc.bucketName, objectName, resp.Body, resp.ContentLength, minio.PutObjectOptions{
		ContentType: resp.Header.Get("Content-Type"),
	})
	if err != nil {
		return fmt.Errorf("failed to store still %s: %w", filePath, err)
	}

	log.WithField("object", objectName).Debug("Mirrored still into object storage")
	return nil
}

// Upload stores an admin-provided still and returns its stored path.
func (svc *MediaService) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if svc.client == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	_, err := svc.client.PutObject(ctx, svc.bucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	return "/" + objectName, nil
}
