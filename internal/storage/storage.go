// Package storage defines the blob store used for photo files.
// Two backends implement it: MinioStorage talks to any S3-compatible provider
// through signed requests, BucketStorage writes to a bucket directory bound to
// this process. The concrete type is chosen once at startup.
package storage

import (
	"context"
	"path"
	"strings"
)

// Storage is a key → bytes mapping with publicly fetchable URLs.
type Storage interface {
	// Put stores data under key, replacing any previous object. Readers never
	// observe a partially written object.
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Delete removes the object at key. A missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PublicURL returns the unsigned URL for key. It performs no I/O.
	PublicURL(key string) string
}

// PhotoKey builds the object key {ownerID}/{albumID}/{photoID}-{filename}.
func PhotoKey(ownerID, albumID, photoID, filename string) string {
	return ownerID + "/" + albumID + "/" + photoID + "-" + SanitizeFilename(filename)
}

// SanitizeFilename drops any directory part and replaces characters that are
// not URL-safe, so keys never need escaping in public URLs.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "photo"
	}
	return b.String()
}

// KeyFromURL recovers the object key from a public URL by locating the
// {ownerID}/{albumID}/{photoID} prefix. It only serves rows persisted
// without a storage key. ok is false when the prefix is absent.
func KeyFromURL(rawURL, ownerID, albumID, photoID string) (key string, ok bool) {
	prefix := ownerID + "/" + albumID + "/" + photoID
	i := strings.Index(rawURL, prefix)
	if i < 0 {
		return "", false
	}
	key = rawURL[i:]
	if j := strings.IndexAny(key, "?#"); j >= 0 {
		key = key[:j]
	}
	return key, true
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
