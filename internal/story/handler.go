package story

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlog/service/internal/middleware"
	"github.com/wanderlog/service/internal/response"
)

// Handler holds HTTP handlers for story endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new story Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type storyRequest struct {
	Title   *string `json:"title"   example:"Day one"`
	Content *string `json:"content" example:"We landed at dawn and walked to Alfama."`
}

// Create godoc
//
//	@Summary		Add story
//	@Tags			stories
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			albumID	path		string			true	"Album ID"
//	@Param			request	body		storyRequest	true	"Story"
//	@Success		201		{object}	response.Envelope{data=Story}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Router			/albums/{albumID}/stories [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	var title, content string
	if req.Title != nil {
		title = *req.Title
	}
	if req.Content != nil {
		content = *req.Content
	}

	st, err := h.svc.Create(r.Context(), chi.URLParam(r, "albumID"), middleware.UserID(r.Context()), title, content)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, st)
}

// List godoc
//
//	@Summary		List album stories
//	@Tags			stories
//	@Produce		json
//	@Security		BearerAuth
//	@Param			albumID	path		string	true	"Album ID"
//	@Success		200		{object}	response.Envelope{data=[]Story}
//	@Failure		404		{object}	response.Envelope
//	@Router			/albums/{albumID}/stories [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	stories, err := h.svc.ListByAlbum(r.Context(), chi.URLParam(r, "albumID"), middleware.UserID(r.Context()))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, stories)
}

// Update godoc
//
//	@Summary		Edit story
//	@Tags			stories
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			storyID	path		string			true	"Story ID"
//	@Param			request	body		storyRequest	true	"Fields to change"
//	@Success		200		{object}	response.Envelope{data=Story}
//	@Failure		403		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Router			/stories/{storyID} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req storyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	st, err := h.svc.Update(r.Context(), chi.URLParam(r, "storyID"), middleware.UserID(r.Context()), req.Title, req.Content)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, st)
}

// Delete godoc
//
//	@Summary		Delete story
//	@Tags			stories
//	@Security		BearerAuth
//	@Param			storyID	path	string	true	"Story ID"
//	@Success		204
//	@Failure		403	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/stories/{storyID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "storyID"), middleware.UserID(r.Context())); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}
