package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/wanderlog/service/internal/apperr"
)

const (
	bucketDirMode  = 0o755
	bucketFileMode = 0o644
)

// BucketStorage implements Storage on a bucket directory that this process
// has direct, already-authorized access to. Objects are served publicly by
// the same process through Handler.
type BucketStorage struct {
	fs         afero.Fs
	root       string
	publicBase string
}

// NewBucketStorage binds the bucket rooted at root on fs, creating the
// directory if needed.
func NewBucketStorage(fs afero.Fs, root, publicBase string) (*BucketStorage, error) {
	if err := fs.MkdirAll(root, bucketDirMode); err != nil {
		return nil, fmt.Errorf("create bucket root %q: %w", root, err)
	}
	return &BucketStorage{fs: fs, root: root, publicBase: publicBase}, nil
}

// Put writes data to a temp file next to the target and renames it into
// place, so a reader sees either the old object or the complete new one.
func (s *BucketStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: put object %q: %v", apperr.ErrStorage, key, err)
	}
	target, err := s.path(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(target)
	if err := s.fs.MkdirAll(dir, bucketDirMode); err != nil {
		return fmt.Errorf("%w: create dir for %q: %v", apperr.ErrStorage, key, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("%w: create temp for %q: %v", apperr.ErrStorage, key, err)
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("%w: write object %q: %v", apperr.ErrStorage, key, werr)
	}
	_ = s.fs.Chmod(tmpName, bucketFileMode)

	if err := s.fs.Rename(tmpName, target); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("%w: commit object %q: %v", apperr.ErrStorage, key, err)
	}
	return nil
}

// Delete removes the object file at key.
func (s *BucketStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: remove object %q: %v", apperr.ErrStorage, key, err)
	}
	target, err := s.path(key)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove object %q: %v", apperr.ErrStorage, key, err)
	}
	return nil
}

// PublicURL returns the URL under which Handler serves key.
func (s *BucketStorage) PublicURL(key string) string {
	return joinURL(s.publicBase, key)
}

// Handler serves bucket objects read-only. Mount it with http.StripPrefix
// so that request paths are object keys.
func (s *BucketStorage) Handler() http.Handler {
	return http.FileServer(afero.NewHttpFs(s.fs).Dir(s.root))
}

// path maps key onto the filesystem, rejecting keys that escape the root.
func (s *BucketStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if key == "" || strings.HasSuffix(key, "/") || clean == "/" {
		return "", fmt.Errorf("%w: invalid object key %q", apperr.ErrStorage, key)
	}
	return filepath.Join(s.root, clean), nil
}
