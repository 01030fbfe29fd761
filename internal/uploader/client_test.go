package uploader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlog/service/internal/response"
)

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/albums/A/photos", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)

		assert.Equal(t, "beach.jpg", hdr.Filename)
		assert.Equal(t, "image/jpeg", hdr.Header.Get("Content-Type"))
		assert.Equal(t, []byte("jpeg-bytes"), data)
		assert.Equal(t, "sunset", r.FormValue("caption"))
		assert.Equal(t, "38.7223", r.FormValue("latitude"))
		assert.Equal(t, "", r.FormValue("longitude"))
		assert.Equal(t, "2026-04-03T18:30:00Z", r.FormValue("takenAt"))

		response.Created(w, map[string]string{"id": "p1", "albumId": "A", "url": "http://cdn/p1.jpg"})
	}))
	defer srv.Close()

	lat := 38.7223
	taken := time.Date(2026, 4, 3, 18, 30, 0, 0, time.UTC)
	c := New(srv.URL+"/api/v1/", "secret")

	p, err := c.Upload(context.Background(), "A", "beach.jpg", "image/jpeg", []byte("jpeg-bytes"),
		Metadata{Caption: "sunset", Latitude: &lat, TakenAt: &taken})
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "http://cdn/p1.jpg", p.URL)
}

func TestUpload_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.BadRequest(w, "file exceeds 5 MiB")
	}))
	defer srv.Close()

	_, err := New(srv.URL, "t").Upload(context.Background(), "A", "big.jpg", "image/jpeg", []byte("x"), Metadata{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "file exceeds 5 MiB", apiErr.Message)
}
