package profile

import (
	"context"
	"io"
)

// LogoStore persists uploaded logo files.
type LogoStore interface {
	// Save writes the file under the user's folder and returns its stored path.
	Save(ctx context.Context, userID, ext string, r io.Reader) (string, error)
	Remove(path string) error
}
