// Package storage keeps uploaded files on the local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/jhoicas/gst-billing-api/internal/application/profile"
)

var _ profile.LogoStore = (*LocalLogoStore)(nil)

// LocalLogoStore writes logos to <root>/<userID>/logo-<ulid><ext>.
type LocalLogoStore struct {
	root string
}

func NewLocalLogoStore(root string) (*LocalLogoStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", abs, err)
	}
	return &LocalLogoStore{root: abs}, nil
}

// Save copies r into a new file and returns its absolute path.
func (s *LocalLogoStore) Save(ctx context.Context, userID, ext string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if userID == "" || strings.ContainsAny(userID, `/\`) || userID == ".." {
		return "", fmt.Errorf("storage: invalid user id %q", userID)
	}
	dir := filepath.Join(s.root, userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: create %s: %w", dir, err)
	}

	path := filepath.Join(dir, "logo-"+strings.ToLower(ulid.Make().String())+ext)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: open %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("storage: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("storage: close %s: %w", path, err)
	}
	return path, nil
}

// Remove deletes a stored file. Paths outside the root and missing files are ignored.
func (s *LocalLogoStore) Remove(path string) error {
	if path == "" || !s.owns(path) {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", path, err)
	}
	return nil
}

func (s *LocalLogoStore) owns(path string) bool {
	rel, err := filepath.Rel(s.root, filepath.Clean(path))
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}
