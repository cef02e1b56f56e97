package contact

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/akanis/studio/internal/response"
)

// Handler holds HTTP handlers for contact endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new contact Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type submitResponse struct {
	Message string `json:"message" example:"Contact submitted successfully"`
	ID      string `json:"id"      example:"0d5e8a7c-1b2f-4c3d-9e4f-5a6b7c8d9e0f"`
}

// Submit godoc
//
//	@Summary		Submit contact inquiry
//	@Description	Store a lead and e-mail the studio owner and the sender.
//	@Tags			contact
//	@Accept			json
//	@Produce		json
//	@Param			request	body		Input	true	"Inquiry"
//	@Success		200		{object}	submitResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/contact [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&in); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	lead, err := h.svc.Submit(r.Context(), in)
	switch {
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(w, strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "))
		return
	case errors.Is(err, ErrNotification):
		log.Printf("contact: lead %s stored, %v", lead.ID, err)
		response.Error(w, http.StatusInternalServerError, "Server error")
		return
	case err != nil:
		log.Printf("contact: submit: %v", err)
		response.Error(w, http.StatusInternalServerError, "Server error")
		return
	}
	response.OK(w, submitResponse{Message: "Contact submitted successfully", ID: lead.ID})
}

// List godoc
//
//	@Summary		List contact leads
//	@Description	All leads newest first.
//	@Tags			contact
//	@Produce		json
//	@Success		200	{array}		Lead
//	@Failure		401	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Security		CookieAuth
//	@Router			/contact [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.svc.List(r.Context())
	if err != nil {
		log.Printf("contact: list: %v", err)
		response.Error(w, http.StatusInternalServerError, "Server error")
		return
	}
	response.OK(w, leads)
}
