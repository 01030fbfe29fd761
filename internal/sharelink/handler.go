package sharelink

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlog/service/internal/middleware"
	"github.com/wanderlog/service/internal/response"
)

// Handler holds HTTP handlers for share link endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new share link Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	TTLSeconds *int64 `json:"ttlSeconds" example:"604800"`
}

// Create godoc
//
//	@Summary		Create share link
//	@Description	Issues an unguessable token granting anonymous read access to the album. Omit ttlSeconds (or send null) for a link that never expires.
//	@Tags			share-links
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			albumID	path		string			true	"Album ID"
//	@Param			request	body		createRequest	false	"Lifetime"
//	@Success		201		{object}	response.Envelope{data=Link}
//	@Failure		404		{object}	response.Envelope
//	@Router			/albums/{albumID}/share-links [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "invalid request body")
		return
	}

	l, err := h.svc.Create(r.Context(), chi.URLParam(r, "albumID"), middleware.UserID(r.Context()), req.TTLSeconds)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, l)
}

// List godoc
//
//	@Summary		List share links
//	@Tags			share-links
//	@Produce		json
//	@Security		BearerAuth
//	@Param			albumID	path		string	true	"Album ID"
//	@Success		200		{object}	response.Envelope{data=[]Link}
//	@Failure		404		{object}	response.Envelope
//	@Router			/albums/{albumID}/share-links [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.svc.List(r.Context(), chi.URLParam(r, "albumID"), middleware.UserID(r.Context()))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, links)
}

// Revoke godoc
//
//	@Summary		Revoke share link
//	@Tags			share-links
//	@Security		BearerAuth
//	@Param			linkID	path	string	true	"Share link ID"
//	@Success		204
//	@Failure		403	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/share-links/{linkID} [delete]
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Revoke(r.Context(), chi.URLParam(r, "linkID"), middleware.UserID(r.Context())); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// Resolve godoc
//
//	@Summary		Open shared album
//	@Description	Public endpoint. Returns the album with all of its photos and stories. 404 for unknown tokens, 410 once the link has expired.
//	@Tags			shared
//	@Produce		json
//	@Param			token	path		string	true	"Share token"
//	@Success		200		{object}	response.Envelope{data=Bundle}
//	@Failure		404		{object}	response.Envelope
//	@Failure		410		{object}	response.Envelope
//	@Router			/shared/{token} [get]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Resolve(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	response.OK(w, b)
}
