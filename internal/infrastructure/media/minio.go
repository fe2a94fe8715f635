package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

// Minio stores avatars in any S3-compatible bucket.
type Minio struct {
	Client  *minio.Client
	Bucket  string
	BaseURL string // public prefix; defaults to the client endpoint
	Region  string
}

func NewMinio(client *minio.Client, bucket, baseURL, region string) *Minio {
	if baseURL == "" {
		baseURL = client.EndpointURL().String()
	}
	return &Minio{Client: client, Bucket: bucket, BaseURL: strings.TrimRight(baseURL, "/"), Region: region}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (m *Minio) EnsureBucket(ctx context.Context) error {
	exists, err := m.Client.BucketExists(ctx, m.Bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", m.Bucket, err)
	}
	if !exists {
		if err := m.Client.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{Region: m.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", m.Bucket, err)
		}
	}
	return nil
}

func (m *Minio) Upload(ctx context.Context, r io.Reader, id, contentType string) (string, error) {
	_, err := m.Client.PutObject(ctx, m.Bucket, id, r, -1, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return m.BaseURL + "/" + m.Bucket + "/" + id, nil
}

func (m *Minio) Delete(ctx context.Context, id string) error {
	return m.Client.RemoveObject(ctx, m.Bucket, id, minio.RemoveObjectOptions{})
}
