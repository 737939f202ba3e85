package upload

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxSize caps uploads at 5 MB, matching the storefront's product images.
const MaxSize = 5 << 20

var (
	ErrInvalidType = errors.New("file type not allowed, images only")
	ErrNotFound    = errors.New("file not found")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store writes product images to a directory served statically under /images.
type Store struct {
	Dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{Dir: dir}, nil
}

// Save stores the image under a fresh producto-<uuid><ext> name and returns
// that filename.
func (s *Store) Save(contentType string, r io.Reader) (string, error) {
	ext, ok := allowedTypes[strings.ToLower(contentType)]
	if !ok {
		return "", ErrInvalidType
	}

	name := "producto-" + uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, MaxSize)); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return name, nil
}

// Remove deletes a stored image. The name is reduced to its base component
// so a crafted path can never reach outside the image directory.
func (s *Store) Remove(name string) error {
	base := filepath.Base(name)
	if base != name || base == "." || base == string(filepath.Separator) {
		return ErrNotFound
	}
	err := os.Remove(filepath.Join(s.Dir, base))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
