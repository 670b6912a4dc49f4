package initializers

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gopkg.in/yaml.v3"
)

// MinioConfig holds the object-storage settings for property photos.
// ExternalEndpoint is the address baked into presigned URLs handed to
// clients, which usually differs from the in-cluster endpoint.
type MinioConfig struct {
	Endpoint         string
	AccessKey        string
	SecretKey        string
	Bucket           string
	UseSSL           bool
	MaxSize          int64
	FileTypes        []string
	Expiry           time.Duration
	ExternalEndpoint string
	ExternalUseSSL   bool
}

var (
	MinioClient         *minio.Client
	ExternalMinioClient *minio.Client
	Conf                MinioConfig
)

// photosConfigYAML is the optional on-disk override for upload limits, so
// size and type policy can ship with the deployment instead of env vars.
type photosConfigYAML struct {
	MaxFileSize        int64    `yaml:"max_file_size"`
	AllowedFileTypes   []string `yaml:"allowed_file_types"`
	PresignedURLExpiry int      `yaml:"presigned_url_expiry"` // seconds
}

func loadPhotosConfig() (*photosConfigYAML, error) {
	path := strings.TrimSpace(os.Getenv("PHOTOS_CONFIG_FILE"))
	if path == "" {
		path = "config/photos.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg photosConfigYAML
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func InitMinio() error {
	Conf = MinioConfig{
		Endpoint:         os.Getenv("MINIO_ENDPOINT"),
		AccessKey:        os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey:        os.Getenv("MINIO_SECRET_KEY"),
		Bucket:           os.Getenv("MINIO_BUCKET"),
		UseSSL:           parseBool(os.Getenv("MINIO_USE_SSL")),
		MaxSize:          parseInt64(os.Getenv("MAX_FILE_SIZE"), 10485760),
		FileTypes:        parsePhotoTypes(os.Getenv("ALLOWED_FILE_TYPES")),
		Expiry:           parseExpiry(os.Getenv("PRESIGNED_URL_EXPIRY")),
		ExternalEndpoint: os.Getenv("MINIO_EXTERNAL_ENDPOINT"),
		ExternalUseSSL:   externalUseSSL(),
	}

	if cfg, err := loadPhotosConfig(); err == nil && cfg != nil {
		if cfg.MaxFileSize > 0 {
			Conf.MaxSize = cfg.MaxFileSize
		}
		if len(cfg.AllowedFileTypes) > 0 {
			Conf.FileTypes = cfg.AllowedFileTypes
		}
		if cfg.PresignedURLExpiry > 0 {
			Conf.Expiry = time.Duration(cfg.PresignedURLExpiry) * time.Second
		}
	}

	client, err := minio.New(Conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(Conf.AccessKey, Conf.SecretKey, ""),
		Secure: Conf.UseSSL,
	})
	if err != nil {
		return err
	}
	MinioClient = client

	exists, err := client.BucketExists(context.Background(), Conf.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), Conf.Bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}

	extEndpoint := strings.TrimPrefix(strings.TrimPrefix(Conf.ExternalEndpoint, "https://"), "http://")
	if extEndpoint == "" || extEndpoint == Conf.Endpoint {
		ExternalMinioClient = MinioClient
	} else {
		external, err := minio.New(extEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(Conf.AccessKey, Conf.SecretKey, ""),
			Secure: Conf.ExternalUseSSL,
			Region: "us-east-1",
		})
		if err != nil {
			return err
		}
		ExternalMinioClient = external
	}

	log.Println("Photo storage bucket ready:", Conf.Bucket)
	return nil
}

// externalUseSSL decides the scheme for presigned URLs: an explicit
// MINIO_EXTERNAL_USE_SSL wins, then the external endpoint's own scheme,
// then the internal MINIO_USE_SSL setting.
func externalUseSSL() bool {
	if v := strings.TrimSpace(os.Getenv("MINIO_EXTERNAL_USE_SSL")); v != "" {
		return parseBool(v)
	}
	raw := strings.TrimSpace(os.Getenv("MINIO_EXTERNAL_ENDPOINT"))
	if strings.HasPrefix(raw, "https://") {
		return true
	}
	if strings.HasPrefix(raw, "http://") {
		return false
	}
	return parseBool(os.Getenv("MINIO_USE_SSL"))
}

func parseBool(val string) bool {
	return strings.ToLower(val) == "true"
}

func parseInt64(val string, def int64) int64 {
	if val == "" {
		return def
	}
	v, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return def
	}
	return v
}

// Photos only; anything else a phone camera produces still arrives as one of
// these after client-side processing.
func parsePhotoTypes(val string) []string {
	if val == "" {
		return []string{"image/jpeg", "image/png", "image/webp", "image/heic"}
	}
	return strings.Split(val, ",")
}

func parseExpiry(val string) time.Duration {
	if val == "" {
		return time.Hour
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return time.Hour
	}
	return time.Duration(v) * time.Second
}

func baseMIME(mime string) string {
	return strings.TrimSpace(strings.Split(mime, ";")[0])
}

// CheckFileAllowed validates an upload against the configured size cap and
// photo type allowlist. The MIME type passed here must come from server-side
// content sniffing, not the client header.
func CheckFileAllowed(size int64, mime string) error {
	if size > Conf.MaxSize {
		return fmt.Errorf("file size exceeds the limit")
	}
	incoming := baseMIME(mime)
	for _, t := range Conf.FileTypes {
		if baseMIME(t) == incoming {
			return nil
		}
	}
	return fmt.Errorf("file type is not allowed")
}

// GenerateAttachmentURL presigns a time-limited download URL for a stored
// photo, served inline under its original (sanitized) filename.
func GenerateAttachmentURL(id, fileName string) (string, error) {
	reqParams := make(url.Values)
	reqParams.Set("response-content-disposition", fmt.Sprintf("inline; filename=%q", sanitizeFilename(fileName)))

	client := ExternalMinioClient
	if client == nil {
		client = MinioClient
	}
	presignedURL, err := client.PresignedGetObject(context.Background(), Conf.Bucket, id, Conf.Expiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("failed to create presigned url: %v", err)
	}
	return presignedURL.String(), nil
}

func sanitizeFilename(name string) string {
	cleaned := strings.NewReplacer("\"", "", "\\", "", "/", "", "..", "").Replace(name)
	var b strings.Builder
	for _, r := range cleaned {
		if r < 32 || r == 127 {
			continue
		}
		b.WriteRune(r)
	}
	s := strings.Join(strings.Fields(b.String()), " ")
	if s == "" {
		return "photo"
	}
	return s
}
