// Package archive copies report artifacts (aging CSVs, raw bill snapshots,
// reconciliation output) to a GCS bucket, and fetches gs:// reconciliation
// sources. It assumes Application Default Credentials are configured.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCS is the concrete bucket-backed store.
type GCS struct {
	bucket string
}

// NewGCS returns an archive writing under the given bucket.
func NewGCS(bucket string) *GCS {
	return &GCS{bucket: bucket}
}

// UploadFile copies a local artifact into the bucket under objectName.
func (g *GCS) UploadFile(ctx context.Context, objectName, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file %q: %w", filePath, err)
	}
	defer f.Close()

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(g.bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy %q to gs://%s/%s: %w", filePath, g.bucket, objectName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload of %q: %w", objectName, err)
	}
	return nil
}

// List returns the object names under a prefix, in storage order.
func (g *GCS) List(ctx context.Context, prefix string) ([]string, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	var names []string
	it := client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gs://%s/%s: %w", g.bucket, prefix, err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

// IsGCSURI reports whether a path names a GCS object rather than a local file.
func IsGCSURI(p string) bool {
	return strings.HasPrefix(p, "gs://")
}

// Fetch downloads the bytes of a gs://bucket/object URI.
func Fetch(ctx context.Context, gcsURI string) ([]byte, error) {
	bucket, object, err := splitURI(gcsURI)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read gs://%s/%s: %w", bucket, object, err)
	}
	return data, nil
}

func splitURI(gcsURI string) (bucket, object string, err error) {
	if !IsGCSURI(gcsURI) {
		return "", "", fmt.Errorf("invalid GCS URI: %s", gcsURI)
	}
	parts := strings.SplitN(strings.TrimPrefix(gcsURI, "gs://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", gcsURI)
	}
	return parts[0], parts[1], nil
}
