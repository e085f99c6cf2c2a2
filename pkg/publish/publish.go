// Package publish stores rendered document snapshots in S3 or a local
// directory.
package publish

import (
	"context"
	"strings"

	"github.com/vango-dev/bindery/internal/errors"
)

// Publisher stores one rendered document under key and returns its
// location.
type Publisher interface {
	Publish(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// Target is a parsed publish destination.
type Target struct {
	// Bucket is set for s3:// targets.
	Bucket string

	// Key is the object key for S3 or the file path otherwise.
	Key string
}

// IsS3 reports whether the target names an S3 object.
func (t Target) IsS3() bool {
	return t.Bucket != ""
}

// ParseTarget parses "s3://bucket/key" or a local file path.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{}, errors.New("B501").WithDetail("empty target")
	}
	rest, ok := strings.CutPrefix(s, "s3://")
	if !ok {
		return Target{Key: s}, nil
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return Target{}, errors.New("B501").WithDetail(s)
	}
	return Target{Bucket: bucket, Key: key}, nil
}
