package publish

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vango-dev/bindery/internal/errors"
)

// Dir publishes snapshots as files below a root directory.
type Dir struct {
	root string
}

// NewDir creates a directory publisher rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Publish writes body to root/key, replacing any previous file
// atomically. It returns the file path.
func (d *Dir) Publish(ctx context.Context, key, _ string, body []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(d.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.New("B500").WithDetail(path).Wrap(err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".publish-*")
	if err != nil {
		return "", errors.New("B500").WithDetail(path).Wrap(err)
	}
	tmp := f.Name()
	if _, err := f.Write(body); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", errors.New("B500").WithDetail(path).Wrap(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", errors.New("B500").WithDetail(path).Wrap(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", errors.New("B500").WithDetail(path).Wrap(err)
	}
	return path, nil
}
