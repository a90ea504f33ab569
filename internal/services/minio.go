package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"cafeteria_back_end/internal/database"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// SubirImagenProducto sube la foto de un producto a MinIO y devuelve su URL.
func SubirImagenProducto(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO no inicializado")
	}

	bucket := os.Getenv("MINIO_BUCKET")
	ext := filepath.Ext(header.Filename)
	objectName := fmt.Sprintf("productos/%s%s", uuid.New().String(), ext)

	_, err := database.MinIO.PutObject(ctx, bucket, objectName, file, header.Size,
		minio.PutObjectOptions{ContentType: header.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	esquema := "http"
	if os.Getenv("MINIO_USE_SSL") == "true" {
		esquema = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", esquema, os.Getenv("MINIO_ENDPOINT"), bucket, objectName), nil
}
