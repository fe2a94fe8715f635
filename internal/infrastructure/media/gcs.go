package media

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/contacts-api/pkg/helpers"
)

// GCS stores avatars in a Google Cloud Storage bucket.
type GCS struct {
	Client *storage.Client
	Bucket string
}

func NewGCS(client *storage.Client, bucket string) *GCS {
	return &GCS{Client: client, Bucket: bucket}
}

func (g *GCS) Upload(ctx context.Context, r io.Reader, id, contentType string) (string, error) {
	return helpers.UploadObject(ctx, g.Client, g.Bucket, id, contentType, r)
}

func (g *GCS) Delete(ctx context.Context, id string) error {
	err := g.Client.Bucket(g.Bucket).Object(id).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}
