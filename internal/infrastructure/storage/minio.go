// Package storage adaptador de almacenamiento de documentos sobre un backend
// S3-compatible (MinIO, AWS S3).
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/credipronto/originacion-api/internal/application/ports"
	"github.com/credipronto/originacion-api/pkg/config"
)

var _ ports.FileStorage = (*MinioStorage)(nil)

// MinioStorage implementa FileStorage sobre MinIO. Seguro para uso concurrente.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinio construye el cliente, valida conectividad y asegura que el bucket
// exista (lo crea si falta).
func NewMinio(cfg config.StorageConfig) (*MinioStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage: endpoint requerido")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage: credenciales requeridas")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket requerido")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("crear cliente minio: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("verificar bucket: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("crear bucket: %w", err)
		}
	}

	return &MinioStorage{client: cli, bucket: cfg.Bucket}, nil
}

// Put sube un objeto por streaming (nunca toca disco local).
func (m *MinioStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// PresignGet genera una URL firmada de descarga con la expiración dada.
func (m *MinioStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign object: %w", err)
	}
	return u.String(), nil
}

// Delete elimina un objeto por key.
func (m *MinioStorage) Delete(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}
