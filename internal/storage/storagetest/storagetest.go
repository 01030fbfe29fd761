// Package storagetest provides an in-memory blob store for tests.
package storagetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/afero"

	"github.com/wanderlog/service/internal/apperr"
	"github.com/wanderlog/service/internal/storage"
)

// BaseURL is the public base of stores created by New.
const BaseURL = "http://blobs.test/media"

// Store is a storage.Storage backed by a BucketStorage on an in-memory
// filesystem. It counts calls and can be told to fail.
type Store struct {
	*storage.BucketStorage
	fs afero.Fs

	mu         sync.Mutex
	puts       int
	deletes    int
	failPut    bool
	failDelete bool
}

// New returns an empty store.
func New() *Store {
	fs := afero.NewMemMapFs()
	b, err := storage.NewBucketStorage(fs, "/bucket", BaseURL)
	if err != nil {
		panic(err)
	}
	return &Store{BucketStorage: b, fs: fs}
}

// FailPuts makes every later Put return a storage error.
func (s *Store) FailPuts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPut = true
}

// FailDeletes makes every later Delete return a storage error.
func (s *Store) FailDeletes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDelete = true
}

// Put implements storage.Storage.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	s.puts++
	fail := s.failPut
	s.mu.Unlock()
	if fail {
		return fmt.Errorf("%w: injected put failure", apperr.ErrStorage)
	}
	return s.BucketStorage.Put(ctx, key, data, contentType)
}

// Delete implements storage.Storage.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.deletes++
	fail := s.failDelete
	s.mu.Unlock()
	if fail {
		return fmt.Errorf("%w: injected delete failure", apperr.ErrStorage)
	}
	return s.BucketStorage.Delete(ctx, key)
}

// Puts reports how many times Put was called.
func (s *Store) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

// Deletes reports how many times Delete was called.
func (s *Store) Deletes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletes
}

// Has reports whether an object is stored under key.
func (s *Store) Has(key string) bool {
	ok, _ := afero.Exists(s.fs, "/bucket/"+key)
	return ok
}

// Resolve returns the object a public URL points at, like a browser would.
func (s *Store) Resolve(url string) ([]byte, bool) {
	prefix := BaseURL + "/"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return nil, false
	}
	data, err := afero.ReadFile(s.fs, "/bucket/"+url[len(prefix):])
	if err != nil {
		return nil, false
	}
	return data, true
}
