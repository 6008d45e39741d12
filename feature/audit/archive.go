package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"url-policy-sync/core/reconcile"
	"url-policy-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// Archive uploads every result as a JSON object.
type Archive struct {
	client storage.Client
	bucket string
	prefix string
}

// NewArchive creates an Archive writing below prefix in bucket.
func NewArchive(client storage.Client, bucket, prefix string) *Archive {
	return &Archive{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Key returns the object key of result:
// <prefix>/<target>/<timestamp>-<run_id>.json.
func (a *Archive) Key(result *reconcile.Result) string {
	target := strings.NewReplacer(":", "_", "/", "_").Replace(result.Target)
	name := fmt.Sprintf("%s-%s.json", result.Timestamp.UTC().Format("20060102T150405Z"), result.RunID)
	return path.Join(a.prefix, target, name)
}

// Record implements Recorder.
func (a *Archive) Record(ctx context.Context, result *reconcile.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	key := a.Key(result)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}
	return nil
}
