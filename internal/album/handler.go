package album

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlog/service/internal/apperr"
	"github.com/wanderlog/service/internal/middleware"
	"github.com/wanderlog/service/internal/response"
)

const dateLayout = "2006-01-02"

// Handler holds HTTP handlers for album endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new album Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type albumRequest struct {
	Title       *string `json:"title"       example:"Lisbon 2026"`
	Description *string `json:"description" example:"Spring trip with friends"`
	Location    *string `json:"location"    example:"Lisbon, Portugal"`
	StartDate   *string `json:"startDate"   example:"2026-04-02"`
	EndDate     *string `json:"endDate"     example:"2026-04-09"`
}

func (req albumRequest) dates() (start, end *time.Time, err error) {
	if start, err = parseDate(req.StartDate); err != nil {
		return nil, nil, apperr.Invalid("startDate must be YYYY-MM-DD")
	}
	if end, err = parseDate(req.EndDate); err != nil {
		return nil, nil, apperr.Invalid("endDate must be YYYY-MM-DD")
	}
	return start, end, nil
}

// Create godoc
//
//	@Summary		Create album
//	@Tags			albums
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		albumRequest	true	"Album fields"
//	@Success		201		{object}	response.Envelope{data=Album}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Router			/albums [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	start, end, err := req.dates()
	if err != nil {
		response.FromError(w, err)
		return
	}

	in := Input{Description: req.Description, Location: req.Location, StartDate: start, EndDate: end}
	if req.Title != nil {
		in.Title = *req.Title
	}

	a, err := h.svc.Create(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, a)
}

// List godoc
//
//	@Summary		List my albums
//	@Tags			albums
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=[]Album}
//	@Failure		401	{object}	response.Envelope
//	@Router			/albums [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	albums, err := h.svc.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, albums)
}

// Get godoc
//
//	@Summary		Get album
//	@Tags			albums
//	@Produce		json
//	@Security		BearerAuth
//	@Param			albumID	path		string	true	"Album ID"
//	@Success		200		{object}	response.Envelope{data=Album}
//	@Failure		404		{object}	response.Envelope
//	@Router			/albums/{albumID} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetOwned(r.Context(), chi.URLParam(r, "albumID"), middleware.UserID(r.Context()))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, a)
}

// Update godoc
//
//	@Summary		Update album
//	@Description	Only the fields present in the body are changed. The cover photo is managed automatically.
//	@Tags			albums
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			albumID	path		string			true	"Album ID"
//	@Param			request	body		albumRequest	true	"Fields to change"
//	@Success		200		{object}	response.Envelope{data=Album}
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Router			/albums/{albumID} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	start, end, err := req.dates()
	if err != nil {
		response.FromError(w, err)
		return
	}

	p := Patch{Title: req.Title, Description: req.Description, Location: req.Location, StartDate: start, EndDate: end}
	a, err := h.svc.Update(r.Context(), chi.URLParam(r, "albumID"), middleware.UserID(r.Context()), p)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, a)
}

// Delete godoc
//
//	@Summary		Delete album
//	@Description	Deletes the album with all photos, stories and share links, and reclaims the stored photo files.
//	@Tags			albums
//	@Security		BearerAuth
//	@Param			albumID	path	string	true	"Album ID"
//	@Success		204
//	@Failure		404	{object}	response.Envelope
//	@Router			/albums/{albumID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "albumID"), middleware.UserID(r.Context())); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
