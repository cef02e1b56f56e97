package gallery

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/akanis/studio/internal/media"
	"github.com/akanis/studio/internal/response"
	"github.com/akanis/studio/internal/upload"
)

// Handler holds HTTP handlers for gallery endpoints.
type Handler struct {
	svc      *Service
	pipeline *upload.Pipeline
}

// NewHandler creates a new gallery Handler. pipeline serves the multipart create variant.
func NewHandler(svc *Service, pipeline *upload.Pipeline) *Handler {
	return &Handler{svc: svc, pipeline: pipeline}
}

type createRequest struct {
	Title    string `json:"title"    example:"Autumn campaign"`
	Tags     Tags   `json:"tags"     swaggertype:"array,string" example:"campaign,outdoor"`
	Type     string `json:"type"     example:"video"`
	URL      string `json:"url"      example:"https://res.cloudinary.com/akanis/video/upload/v1/studio-gallery/clip.mp4"`
	PublicID string `json:"publicId" example:"studio-gallery/clip"`
}

// List godoc
//
//	@Summary		List gallery items
//	@Description	All items newest first, optionally filtered by type.
//	@Tags			gallery
//	@Produce		json
//	@Param			type	query		string	false	"photo or video"
//	@Success		200		{array}		Item
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/gallery [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), r.URL.Query().Get("type"))
	if errors.Is(err, ErrInvalidInput) {
		response.BadRequest(w, "type must be photo or video")
		return
	}
	if err != nil {
		log.Printf("gallery: list: %v", err)
		response.Upstream(w, "Failed to fetch gallery items", err)
		return
	}
	response.OK(w, items)
}

// Create godoc
//
//	@Summary		Create gallery item
//	@Description	JSON: record an asset already uploaded to the media host. Multipart: upload the file through the server first, then record it.
//	@Tags			gallery
//	@Accept			json
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			request	body		createRequest	false	"Item (JSON variant)"
//	@Param			file	formData	file			false	"Media file (multipart variant)"
//	@Param			type	formData	string			false	"photo or video (multipart variant)"
//	@Param			title	formData	string			false	"Title (multipart variant)"
//	@Param			tags	formData	string			false	"Comma-separated tags (multipart variant)"
//	@Success		201		{object}	Item
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		401		{object}	response.ErrorBody
//	@Failure		413		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Security		CookieAuth
//	@Router			/gallery [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		h.createFromUpload(w, r)
		return
	}

	var req createRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	item, err := h.svc.Create(r.Context(), CreateInput{
		Title:      req.Title,
		Tags:       req.Tags,
		Type:       req.Type,
		URL:        req.URL,
		ExternalID: req.PublicID,
	})
	if errors.Is(err, ErrInvalidInput) {
		response.BadRequest(w, strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "))
		return
	}
	if err != nil {
		log.Printf("gallery: create: %v", err)
		response.Upstream(w, "Failed to create gallery item", err)
		return
	}
	response.Created(w, item)
}

func (h *Handler) createFromUpload(w http.ResponseWriter, r *http.Request) {
	if h.pipeline == nil {
		response.BadRequest(w, "multipart uploads are not enabled")
		return
	}
	upload.LiftDeadlines(w)

	rec, err := h.pipeline.Receive(w, r)
	if err != nil {
		upload.WriteError(w, err)
		return
	}
	defer h.pipeline.Discard(r.Context(), rec)

	kind, err := media.ParseKind(rec.Value("type"))
	if err != nil {
		response.BadRequest(w, "type must be photo or video")
		return
	}

	asset, err := h.pipeline.Forward(r.Context(), rec, kind, "")
	if err != nil {
		upload.WriteError(w, err)
		return
	}

	item, err := h.svc.CreateFromAsset(r.Context(), rec.Value("title"), NormalizeTags(rec.Fields["tags"]...), kind, asset)
	if err != nil {
		log.Printf("gallery: create from upload: %v", err)
		response.Upstream(w, "Failed to create gallery item", err)
		return
	}
	response.Created(w, item)
}

// Delete godoc
//
//	@Summary		Delete gallery item
//	@Description	Destroy the remote asset, then the record. If the host refuses, the record is kept.
//	@Tags			gallery
//	@Produce		json
//	@Param			id	query		string	true	"Item id"
//	@Success		200	{object}	response.SuccessBody
//	@Failure		400	{object}	response.ErrorBody
//	@Failure		401	{object}	response.ErrorBody
//	@Failure		404	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Security		CookieAuth
//	@Router			/gallery [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), r.URL.Query().Get("id"))
	switch {
	case err == nil:
		response.Success(w)
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(w, "ID is required")
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Gallery item not found")
	case errors.Is(err, ErrRemoteDelete):
		log.Printf("gallery: delete: %v", err)
		var hostErr *media.HostError
		if errors.As(err, &hostErr) {
			response.ErrorDetail(w, http.StatusInternalServerError, "Failed to delete media", errors.New(hostErr.Message))
			return
		}
		response.Upstream(w, "Failed to delete media", err)
	default:
		log.Printf("gallery: delete: %v", err)
		response.Upstream(w, "Failed to delete gallery item", err)
	}
}
