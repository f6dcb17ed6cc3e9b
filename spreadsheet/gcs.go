package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GCSStore reads and writes the shared workbook object in a Google Cloud
// Storage bucket. A client is created per call; both operations are
// request-scoped and infrequent.
type GCSStore struct {
	Bucket string
}

func NewGCSStore(bucket string) *GCSStore {
	return &GCSStore{Bucket: bucket}
}

func (g *GCSStore) client(ctx context.Context) (*storage.Client, error) {
	// Prefer ADC (service account / GOOGLE_APPLICATION_CREDENTIALS).
	// If you need to provide explicit JSON (e.g. locally), set GCS_CREDENTIALS_JSON.
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	}
	return storage.NewClient(ctx)
}

func (g *GCSStore) Download(ctx context.Context, path string) ([]byte, error) {
	client, err := g.client(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	rc, err := client.Bucket(g.Bucket).Object(path).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read object from Google Cloud Storage: %v", err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

func (g *GCSStore) Upload(ctx context.Context, path string, data []byte) error {
	client, err := g.client(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	wc := client.Bucket(g.Bucket).Object(path).NewWriter(ctx)
	wc.ContentType = xlsxContentType

	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to upload bytes to Google Cloud Storage: %v", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %v", err)
	}
	return nil
}
