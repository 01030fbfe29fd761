package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_PublicBaseFollowsDriver(t *testing.T) {
	t.Run("S3Default", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", StorageDriverS3)
		t.Setenv("STORAGE_BUCKET", "photos")
		t.Setenv("STORAGE_PUBLIC_BASE", "")

		assert.Equal(t, "http://localhost:9000/photos", Load().StoragePublicBase)
	})

	t.Run("LocalServesFromMediaRoute", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", StorageDriverLocal)
		t.Setenv("PORT", "8081")
		t.Setenv("STORAGE_PUBLIC_BASE", "")

		assert.Equal(t, "http://localhost:8081/media", Load().StoragePublicBase)
	})

	t.Run("ExplicitBaseWins", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", StorageDriverLocal)
		t.Setenv("STORAGE_PUBLIC_BASE", "https://cdn.example.com/media")

		assert.Equal(t, "https://cdn.example.com/media", Load().StoragePublicBase)
	})
}
