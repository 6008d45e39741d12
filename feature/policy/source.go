package policy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"url-policy-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// s3Scheme prefixes URL lists stored in the configured bucket.
const s3Scheme = "s3://"

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// ErrNoStorage is returned for s3:// sources when no storage is configured.
var ErrNoStorage = errors.New("object storage is not configured")

// ReadLines returns every line of r. Normalization happens later.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lines := make([]string, 0, 128)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return lines, nil
}

// Sources opens URL lists from local files, stdin or object storage.
type Sources struct {
	client storage.Client
	bucket string
	stdin  io.Reader
}

// NewSources creates a source opener. client may be nil when s3:// sources
// are not used.
func NewSources(client storage.Client, bucket string) *Sources {
	return &Sources{client: client, bucket: bucket, stdin: os.Stdin}
}

// Open opens path: "-" is stdin, "s3://<key>" an object of the configured
// bucket, anything else a local file.
func (s *Sources) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	switch {
	case path == "":
		return nil, &ValidationError{Field: "file", Reason: "no URL file given"}
	case path == "-":
		return io.NopCloser(s.stdin), nil
	case strings.HasPrefix(path, s3Scheme):
		if s.client == nil {
			return nil, ErrNoStorage
		}
		key := strings.TrimPrefix(path, s3Scheme)
		obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		return obj, nil
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open URL file: %w", err)
		}
		return f, nil
	}
}

// Read opens path and returns its lines.
func (s *Sources) Read(ctx context.Context, path string) ([]string, error) {
	rc, err := s.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	lines, err := ReadLines(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lines, nil
}
