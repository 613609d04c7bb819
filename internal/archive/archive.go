// Package archive ships payables reports to and from Google Cloud Storage.
// Ledger snapshots and generated reports live under gs://<bucket>/<object>;
// Application Default Credentials are assumed.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// UploadFile uploads a local report file to a GCS bucket under the given
// object name.
func UploadFile(ctx context.Context, bucketName, objectName, filePath string) error {
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

	obj := client.Bucket(bucketName).Object(objectName)
	w := obj.NewWriter(ctx)
	defer func() {
		// Ensure the writer is closed even on early returns
		_ = w.Close()
	}()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copy file to GCS writer: %w", err)
	}

	// Close to finalize the upload
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload: %w", err)
	}

	return nil
}

// Fetch downloads the bytes behind a gs:// URI, typically a ledger snapshot
// the pipeline loads as its paid dataset.
func Fetch(ctx context.Context, gcsURI string) ([]byte, error) {
	bucketName, objectPath, err := splitGCSURI(gcsURI)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch: creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch: reading object %s/%s: %w", bucketName, objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("fetch: reading bytes: %w", err)
	}

	return data, nil
}

// IsGCSURI reports whether the path names an object in GCS.
func IsGCSURI(s string) bool {
	return strings.HasPrefix(s, "gs://")
}

func splitGCSURI(gcsURI string) (bucket, object string, err error) {
	if !IsGCSURI(gcsURI) {
		return "", "", fmt.Errorf("invalid GCS URI: %s", gcsURI)
	}
	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", gcsURI)
	}
	return parts[0], parts[1], nil
}

// Filename extracts the file name from a GCS URI.
// e.g., "gs://bucket/reports/due.csv" → "due.csv"
func Filename(uri string) string {
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return path.Base(parts[1])
}
