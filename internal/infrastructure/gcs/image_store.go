package gcs

import (
	"context"
	"io"
	"time"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

const productImagePrefix = "products"

// ImageStore uploads product images to a public GCS bucket
type ImageStore struct {
	client *storage.Client
	bucket string
}

func NewImageStore(client *storage.Client, bucket string) *ImageStore {
	return &ImageStore{client: client, bucket: bucket}
}

func (s *ImageStore) Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	c, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return helpers.UploadObject(c, s.client, s.bucket, helpers.ObjectPath(productImagePrefix, filename), contentType, r)
}

var _ application.ImageStore = (*ImageStore)(nil)
