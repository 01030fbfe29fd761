package photo

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlog/service/internal/apperr"
	"github.com/wanderlog/service/internal/middleware"
	"github.com/wanderlog/service/internal/response"
)

const (
	// multipartOverhead leaves room for form fields and part headers around the file.
	multipartOverhead = 1 << 20
	maxCaptionLen     = 2000
)

// Handler holds HTTP handlers for photo endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new photo Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Upload godoc
//
//	@Summary		Upload photo
//	@Description	Stores an image (max 5 MiB) in the album. The first photo of an album without a cover becomes its cover.
//	@Tags			photos
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			albumID		path		string	true	"Album ID"
//	@Param			file		formData	file	true	"Image file"
//	@Param			caption		formData	string	false	"Caption"
//	@Param			latitude	formData	number	false	"Latitude"
//	@Param			longitude	formData	number	false	"Longitude"
//	@Param			takenAt		formData	string	false	"Capture time (RFC 3339)"
//	@Success		201			{object}	response.Envelope{data=Photo}
//	@Failure		400			{object}	response.Envelope
//	@Failure		401			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		502			{object}	response.Envelope
//	@Router			/albums/{albumID}/photos [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(MaxUploadBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(w, "file must be at most 5 MiB")
			return
		}
		response.BadRequest(w, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	if header.Size > MaxUploadBytes {
		response.BadRequest(w, "file must be at most 5 MiB")
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes+1))
	if err != nil {
		response.BadRequest(w, "failed to read file")
		return
	}

	in := UploadInput{
		AlbumID:     chi.URLParam(r, "albumID"),
		UserID:      userID,
		Filename:    header.Filename,
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}
	if in.Caption, err = optionalString(r.FormValue("caption")); err != nil {
		response.FromError(w, err)
		return
	}
	if in.Latitude, err = optionalFloat(r.FormValue("latitude"), "latitude"); err != nil {
		response.FromError(w, err)
		return
	}
	if in.Longitude, err = optionalFloat(r.FormValue("longitude"), "longitude"); err != nil {
		response.FromError(w, err)
		return
	}
	if in.TakenAt, err = optionalTime(r.FormValue("takenAt")); err != nil {
		response.FromError(w, err)
		return
	}

	p, err := h.svc.Upload(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, p)
}

// List godoc
//
//	@Summary		List album photos
//	@Tags			photos
//	@Produce		json
//	@Security		BearerAuth
//	@Param			albumID	path		string	true	"Album ID"
//	@Success		200		{object}	response.Envelope{data=[]Photo}
//	@Failure		404		{object}	response.Envelope
//	@Router			/albums/{albumID}/photos [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	photos, err := h.svc.ListByAlbum(r.Context(), chi.URLParam(r, "albumID"), middleware.UserID(r.Context()))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, photos)
}

// Delete godoc
//
//	@Summary		Delete photo
//	@Description	Removes the photo; if it was the album cover the cover is cleared.
//	@Tags			photos
//	@Security		BearerAuth
//	@Param			photoID	path	string	true	"Photo ID"
//	@Success		204
//	@Failure		403	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/photos/{photoID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "photoID"), middleware.UserID(r.Context())); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

func optionalString(v string) (*string, error) {
	if v == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(v) > maxCaptionLen {
		return nil, apperr.Invalid(fmt.Sprintf("caption must be at most %d characters", maxCaptionLen))
	}
	return &v, nil
}

func optionalFloat(v, field string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, apperr.Invalid(field + " must be a number")
	}
	return &f, nil
}

func optionalTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, apperr.Invalid("takenAt must be an RFC 3339 timestamp")
	}
	return &t, nil
}
