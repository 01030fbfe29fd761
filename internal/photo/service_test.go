package photo

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wanderlog/service/internal/album"
	"github.com/wanderlog/service/internal/apperr"
	"github.com/wanderlog/service/internal/storage/storagetest"
)

type memPhotos struct {
	mu        sync.Mutex
	photos    map[string]*Photo
	creates   int
	failWrite error
}

func newMemPhotos() *memPhotos { return &memPhotos{photos: map[string]*Photo{}} }

func (m *memPhotos) Create(_ context.Context, p *Photo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	if m.failWrite != nil {
		return m.failWrite
	}
	cp := *p
	m.photos[p.ID] = &cp
	return nil
}

func (m *memPhotos) GetByID(_ context.Context, id string) (*Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.photos[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPhotos) ListByAlbum(_ context.Context, albumID string) ([]Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Photo{}
	for _, p := range m.photos {
		if p.AlbumID == albumID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPhotos) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.photos[id]; !ok {
		return ErrNotFound
	}
	delete(m.photos, id)
	return nil
}

type memAlbums struct {
	mu     sync.Mutex
	albums map[string]*album.Album
	writes int
}

func newMemAlbums(albums ...album.Album) *memAlbums {
	m := &memAlbums{albums: map[string]*album.Album{}}
	for i := range albums {
		a := albums[i]
		m.albums[a.ID] = &a
	}
	return m
}

func (m *memAlbums) GetByID(_ context.Context, id string) (*album.Album, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.albums[id]
	if !ok {
		return nil, album.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAlbums) SetCoverIfEmpty(_ context.Context, albumID, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	a, ok := m.albums[albumID]
	if !ok || a.CoverPhotoURL != nil {
		return false, nil
	}
	a.CoverPhotoURL = &url
	return true, nil
}

func (m *memAlbums) ClearCoverIfMatches(_ context.Context, albumID, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	a, ok := m.albums[albumID]
	if !ok || a.CoverPhotoURL == nil || *a.CoverPhotoURL != url {
		return false, nil
	}
	a.CoverPhotoURL = nil
	return true, nil
}

func (m *memAlbums) cover(id string) *string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.albums[id].CoverPhotoURL
}

type fixture struct {
	svc    *Service
	photos *memPhotos
	albums *memAlbums
	blobs  *storagetest.Store
}

func newFixture(log *zap.Logger) *fixture {
	f := &fixture{
		photos: newMemPhotos(),
		albums: newMemAlbums(album.Album{ID: "A", UserID: "owner", Title: "Trip"}),
		blobs:  storagetest.New(),
	}
	f.svc = NewService(f.photos, f.albums, f.blobs, log)
	return f
}

func jpegUpload(name string) UploadInput {
	return UploadInput{
		AlbumID:     "A",
		UserID:      "owner",
		Filename:    name,
		Data:        []byte("\xff\xd8\xff\xe0 fake jpeg " + name),
		ContentType: "image/jpeg",
	}
}

func TestUpload_StoresBlobAndRow(t *testing.T) {
	f := newFixture(zap.NewNop())

	p, err := f.svc.Upload(context.Background(), jpegUpload("beach.jpg"))
	require.NoError(t, err)

	require.NotNil(t, p.StorageKey)
	assert.Equal(t, "owner/A/"+p.ID+"-beach.jpg", *p.StorageKey)
	assert.Equal(t, storagetest.BaseURL+"/owner/A/"+p.ID+"-beach.jpg", p.URL)

	body, ok := f.blobs.Resolve(p.URL)
	require.True(t, ok, "url must resolve right after upload")
	assert.Equal(t, jpegUpload("beach.jpg").Data, body)

	stored, err := f.photos.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.URL, stored.URL)
}

func TestUpload_ConcurrentUploadsNeverCollide(t *testing.T) {
	f := newFixture(zap.NewNop())

	var wg sync.WaitGroup
	urls := make(chan string, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := f.svc.Upload(context.Background(), jpegUpload("same.jpg"))
			if assert.NoError(t, err) {
				urls <- p.URL
			}
		}()
	}
	wg.Wait()
	close(urls)

	seen := map[string]bool{}
	for u := range urls {
		assert.False(t, seen[u], "duplicate url %s", u)
		seen[u] = true
	}
	assert.Len(t, seen, 20)
	assert.Equal(t, 1, countNonNil(f.albums.cover("A")))
}

func countNonNil(s *string) int {
	if s == nil {
		return 0
	}
	return 1
}

func TestUpload_RejectsBeforeAnyIO(t *testing.T) {
	cases := map[string]func(*UploadInput){
		"oversize":      func(in *UploadInput) { in.Data = make([]byte, MaxUploadBytes+1) },
		"empty":         func(in *UploadInput) { in.Data = nil },
		"not image":     func(in *UploadInput) { in.ContentType = "application/pdf" },
		"no type":       func(in *UploadInput) { in.ContentType = "" },
		"latitude":      func(in *UploadInput) { lat := 91.0; in.Latitude = &lat },
		"longitude":     func(in *UploadInput) { lon := -181.0; in.Longitude = &lon },
		"nan latitude":  func(in *UploadInput) { lat := math.NaN(); in.Latitude = &lat },
		"inf longitude": func(in *UploadInput) { lon := math.Inf(1); in.Longitude = &lon },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(zap.NewNop())
			in := jpegUpload("x.jpg")
			mutate(&in)

			_, err := f.svc.Upload(context.Background(), in)
			assert.True(t, errors.Is(err, apperr.ErrInvalidInput), "got %v", err)
			assert.Zero(t, f.blobs.Puts())
			assert.Zero(t, f.photos.creates)
			assert.Zero(t, f.albums.writes)
		})
	}
}

func TestUpload_AcceptsExactCap(t *testing.T) {
	f := newFixture(zap.NewNop())
	in := jpegUpload("big.jpg")
	in.Data = make([]byte, MaxUploadBytes)
	in.ContentType = "image/JPEG; charset=binary"

	_, err := f.svc.Upload(context.Background(), in)
	require.NoError(t, err)
}

func TestUpload_AlbumOwnership(t *testing.T) {
	f := newFixture(zap.NewNop())

	foreign := jpegUpload("x.jpg")
	foreign.UserID = "intruder"
	_, errForeign := f.svc.Upload(context.Background(), foreign)

	missing := jpegUpload("x.jpg")
	missing.AlbumID = "nope"
	_, errMissing := f.svc.Upload(context.Background(), missing)

	assert.True(t, errors.Is(errForeign, apperr.ErrNotFound))
	assert.True(t, errors.Is(errMissing, apperr.ErrNotFound))
	assert.Equal(t, apperr.Message(errMissing), apperr.Message(errForeign))
	assert.Zero(t, f.blobs.Puts())

	anon := jpegUpload("x.jpg")
	anon.UserID = ""
	_, err := f.svc.Upload(context.Background(), anon)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestUpload_StorageFailureWritesNoRow(t *testing.T) {
	f := newFixture(zap.NewNop())
	f.blobs.FailPuts()

	_, err := f.svc.Upload(context.Background(), jpegUpload("x.jpg"))
	assert.True(t, errors.Is(err, apperr.ErrStorage))
	assert.Zero(t, f.photos.creates)
	assert.Nil(t, f.albums.cover("A"))
}

func TestUpload_RowFailureRemovesBlob(t *testing.T) {
	f := newFixture(zap.NewNop())
	f.photos.failWrite = errors.New("insert photo: connection refused")

	_, err := f.svc.Upload(context.Background(), jpegUpload("x.jpg"))
	require.Error(t, err)
	assert.Equal(t, 1, f.blobs.Puts())
	assert.Equal(t, 1, f.blobs.Deletes())
	assert.Nil(t, f.albums.cover("A"))
}

func TestCoverLifecycle(t *testing.T) {
	f := newFixture(zap.NewNop())
	ctx := context.Background()

	p1, err := f.svc.Upload(ctx, jpegUpload("p1.jpg"))
	require.NoError(t, err)
	require.NotNil(t, f.albums.cover("A"))
	assert.Equal(t, p1.URL, *f.albums.cover("A"))

	p2, err := f.svc.Upload(ctx, jpegUpload("p2.jpg"))
	require.NoError(t, err)
	assert.Equal(t, p1.URL, *f.albums.cover("A"), "later uploads keep the cover")

	require.NoError(t, f.svc.Delete(ctx, p2.ID, "owner"))
	assert.Equal(t, p1.URL, *f.albums.cover("A"), "deleting a non-cover photo keeps the cover")

	require.NoError(t, f.svc.Delete(ctx, p1.ID, "owner"))
	assert.Nil(t, f.albums.cover("A"))
	assert.False(t, f.blobs.Has(*p1.StorageKey))
}

func TestDelete_Ownership(t *testing.T) {
	f := newFixture(zap.NewNop())
	ctx := context.Background()
	p, err := f.svc.Upload(ctx, jpegUpload("x.jpg"))
	require.NoError(t, err)

	err = f.svc.Delete(ctx, p.ID, "intruder")
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	err = f.svc.Delete(ctx, "missing", "owner")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	err = f.svc.Delete(ctx, p.ID, "")
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	_, err = f.photos.GetByID(ctx, p.ID)
	assert.NoError(t, err, "photo survives rejected deletes")
	assert.True(t, f.blobs.Has(*p.StorageKey))
}

func TestDelete_StorageFailureIsSwallowed(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := newFixture(zap.New(core))
	ctx := context.Background()
	p, err := f.svc.Upload(ctx, jpegUpload("x.jpg"))
	require.NoError(t, err)

	f.blobs.FailDeletes()
	require.NoError(t, f.svc.Delete(ctx, p.ID, "owner"))

	_, err = f.photos.GetByID(ctx, p.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Nil(t, f.albums.cover("A"))
	assert.True(t, f.blobs.Has(*p.StorageKey), "orphan blob is accepted")
	assert.Equal(t, 1, logs.FilterMessageSnippet("orphaned").Len())
}

func TestDelete_LegacyRowWithoutStorageKey(t *testing.T) {
	f := newFixture(zap.NewNop())
	ctx := context.Background()
	p, err := f.svc.Upload(ctx, jpegUpload("x.jpg"))
	require.NoError(t, err)
	key := *p.StorageKey

	f.photos.mu.Lock()
	f.photos.photos[p.ID].StorageKey = nil
	f.photos.mu.Unlock()

	require.NoError(t, f.svc.Delete(ctx, p.ID, "owner"))
	assert.False(t, f.blobs.Has(key), "key recovered from url")
}

func TestListByAlbum(t *testing.T) {
	f := newFixture(zap.NewNop())
	ctx := context.Background()
	_, err := f.svc.Upload(ctx, jpegUpload("a.jpg"))
	require.NoError(t, err)
	_, err = f.svc.Upload(ctx, jpegUpload("b.jpg"))
	require.NoError(t, err)

	photos, err := f.svc.ListByAlbum(ctx, "A", "owner")
	require.NoError(t, err)
	assert.Len(t, photos, 2)

	_, err = f.svc.ListByAlbum(ctx, "A", "intruder")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
