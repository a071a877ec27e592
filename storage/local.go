package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"
)

// LocalStore writes images under Dir and serves them from PublicPath,
// e.g. Dir=/var/www/farmfresh/uploads, PublicPath=/uploads.
type LocalStore struct {
	Dir        string
	PublicPath string
	now        func() time.Time
}

func NewLocalStore(dir, publicPath string) *LocalStore {
	return &LocalStore{Dir: dir, PublicPath: publicPath, now: time.Now}
}

func (s *LocalStore) Save(ctx context.Context, filename, _ string, r io.Reader) (string, error) {
	name, err := objectName(filename, s.now())
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.Dir, "products")
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}

	dst := filepath.Join(dir, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := out.Sync(); err != nil {
		return "", fmt.Errorf("sync image file: %w", err)
	}
	return path.Join(s.PublicPath, "products", name), nil
}
