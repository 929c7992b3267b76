package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"emosense/internal/config"
)

func NewMinioClient(conf config.S3Config) (*minio.Client, error) {
	return minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKeyID, conf.SecretAccessKey, ""),
		Secure: conf.UseSSL,
		Region: conf.Region,
	})
}

// UploadBytesToMinio stores an in-memory artifact, picking the content type
// from the object name's extension.
func UploadBytesToMinio(ctx context.Context, minioCli *minio.Client, bucket, minioPath string, data []byte) error {
	lastDotIndex := strings.LastIndex(minioPath, ".")
	ext := ""
	if lastDotIndex != -1 {
		ext = strings.ToLower(minioPath[lastDotIndex+1:])
	}
	contentType := "application/octet-stream"

	switch ext {
	case "jpg", "jpeg":
		contentType = "image/jpeg"
	case "png":
		contentType = "image/png"
	case "pdf":
		contentType = "application/pdf"
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "json":
		contentType = "application/json"
	}

	_, err := minioCli.PutObject(
		ctx,
		bucket,
		strings.TrimPrefix(minioPath, "/"),
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return fmt.Errorf("put object to minio failed: %w", err)
	}

	return nil
}
