package uploader

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// extensionTypes covers image formats content sniffing does not recognize.
var extensionTypes = map[string]string{
	".heic": "image/heic",
	".heif": "image/heif",
	".webp": "image/webp",
}

// ContentType sniffs data and falls back to the file extension when the
// bytes alone are inconclusive.
func ContentType(filename string, data []byte) string {
	sniffed := http.DetectContentType(data)
	if sniffed != "application/octet-stream" {
		return sniffed
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return sniffed
}
