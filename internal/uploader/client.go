// Package uploader is the client side of the photo upload endpoint.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/wanderlog/service/internal/photo"
)

// Client posts photos to the API on behalf of one bearer token.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New returns a Client for baseURL, e.g. "http://localhost:8080/api/v1".
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Metadata is the optional form data sent with a photo.
type Metadata struct {
	Caption   string
	Latitude  *float64
	Longitude *float64
	TakenAt   *time.Time
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upload rejected (%d): %s", e.Status, e.Message)
}

// Upload sends data as the file of a new photo in albumID.
func (c *Client) Upload(ctx context.Context, albumID, filename, contentType string, data []byte, meta Metadata) (*photo.Photo, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if meta.Caption != "" {
		fields["caption"] = meta.Caption
	}
	if meta.Latitude != nil {
		fields["latitude"] = strconv.FormatFloat(*meta.Latitude, 'f', -1, 64)
	}
	if meta.Longitude != nil {
		fields["longitude"] = strconv.FormatFloat(*meta.Longitude, 'f', -1, 64)
	}
	if meta.TakenAt != nil {
		fields["takenAt"] = meta.TakenAt.Format(time.RFC3339)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/albums/%s/photos", c.BaseURL, albumID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post photo: %w", err)
	}
	defer resp.Body.Close()

	var env struct {
		Success bool         `json:"success"`
		Data    *photo.Photo `json:"data"`
		Error   string       `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: "unreadable response"}
	}
	if resp.StatusCode != http.StatusCreated || !env.Success || env.Data == nil {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	return env.Data, nil
}
