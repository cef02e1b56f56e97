package upload

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/akanis/studio/internal/media"
	"github.com/akanis/studio/internal/response"
)

// Handler serves the signature and proxy endpoints.
type Handler struct {
	pipeline *Pipeline
	signer   *media.Signer
	target   media.DirectTarget
	now      func() time.Time
}

// NewHandler creates an upload Handler. signer and target are nil when the media backend does
// not accept direct uploads; the signature endpoint then answers 503.
func NewHandler(pipeline *Pipeline, signer *media.Signer, target media.DirectTarget) *Handler {
	return &Handler{pipeline: pipeline, signer: signer, target: target, now: time.Now}
}

type signatureRequest struct {
	ResourceType string `json:"resourceType" example:"video"`
}

// SignatureResponse is everything a client needs for one direct signed upload.
type SignatureResponse struct {
	Timestamp    int64  `json:"timestamp"    example:"1760000000"`
	Signature    string `json:"signature"    example:"a94a8fe5ccb19ba61c4c0873d391e987982fbbd3"`
	CloudName    string `json:"cloudName"    example:"akanis"`
	APIKey       string `json:"apiKey"       example:"123456789012345"`
	ResourceType string `json:"resourceType" example:"video"`
	Folder       string `json:"folder"       example:"studio-gallery"`
	UploadURL    string `json:"uploadUrl"    example:"https://api.cloudinary.com/v1_1/akanis/video/upload"`
}

// Signature godoc
//
//	@Summary		Direct upload signature
//	@Description	Sign {folder, timestamp} for one direct upload to the media host. The signature does not bind the file.
//	@Tags			upload
//	@Accept			json
//	@Produce		json
//	@Param			request	body		signatureRequest	false	"Resource type (image or video, default image)"
//	@Success		200		{object}	SignatureResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		401		{object}	response.ErrorBody
//	@Failure		503		{object}	response.ErrorBody
//	@Security		CookieAuth
//	@Router			/cloudinary-signature [post]
func (h *Handler) Signature(w http.ResponseWriter, r *http.Request) {
	if h.signer == nil || h.target == nil {
		response.Error(w, http.StatusServiceUnavailable, "Direct uploads are not available on this media backend")
		return
	}

	var req signatureRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 4<<10)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "invalid request body")
		return
	}
	resourceType := strings.ToLower(strings.TrimSpace(req.ResourceType))
	if resourceType == "" {
		resourceType = media.ResourceImage
	}
	if _, err := media.KindFromResourceType(resourceType); err != nil {
		response.BadRequest(w, "Invalid resource type")
		return
	}

	sig := h.signer.SignUpload(h.pipeline.DefaultFolder(), h.now())
	response.OK(w, SignatureResponse{
		Timestamp:    sig.Timestamp,
		Signature:    sig.Signature,
		CloudName:    h.target.CloudName(),
		APIKey:       h.target.APIKey(),
		ResourceType: resourceType,
		Folder:       sig.Folder,
		UploadURL:    h.target.UploadURL(resourceType),
	})
}

// Proxy godoc
//
//	@Summary		Proxy upload
//	@Description	Stream a large file through the server to the media host in 6MB chunks. Returns the host's asset descriptor.
//	@Tags			upload
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file			formData	file	true	"Media file"
//	@Param			folder			formData	string	false	"Destination folder"
//	@Param			resource_type	formData	string	false	"image or video (default video)"
//	@Success		200				{object}	media.Asset
//	@Failure		400				{object}	response.ErrorBody
//	@Failure		401				{object}	response.ErrorBody
//	@Failure		413				{object}	response.ErrorBody
//	@Failure		500				{object}	response.ErrorBody
//	@Security		CookieAuth
//	@Router			/upload/proxy [post]
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	LiftDeadlines(w)

	rec, err := h.pipeline.Receive(w, r)
	if err != nil {
		WriteError(w, err)
		return
	}
	defer h.pipeline.Discard(r.Context(), rec)

	resourceType := rec.Value("resource_type")
	if resourceType == "" {
		resourceType = media.ResourceVideo
	}
	kind, err := media.KindFromResourceType(resourceType)
	if err != nil {
		WriteError(w, err)
		return
	}

	asset, err := h.pipeline.Forward(r.Context(), rec, kind, rec.Value("folder"))
	if err != nil {
		WriteError(w, err)
		return
	}
	log.Printf("upload: proxied %s (%d bytes) as %s", rec.Filename, rec.Size, asset.PublicID)
	response.OK(w, asset)
}

// LiftDeadlines clears the server's read and write deadlines for a long-running upload.
func LiftDeadlines(w http.ResponseWriter) {
	rc := http.NewResponseController(w)
	if err := rc.SetReadDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Printf("upload: lift read deadline: %v", err)
	}
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Printf("upload: lift write deadline: %v", err)
	}
}

// WriteError maps a pipeline error to its HTTP response.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, media.ErrTooLarge):
		response.TooLarge(w, err.Error())
	case errors.Is(err, ErrNoFile):
		response.BadRequest(w, "No file provided")
	case errors.Is(err, ErrMalformed),
		errors.Is(err, ErrInvalidFolder),
		errors.Is(err, media.ErrUnsupportedType),
		errors.Is(err, media.ErrInvalidKind),
		errors.Is(err, media.ErrInvalidResourceType):
		response.BadRequest(w, err.Error())
	default:
		log.Printf("upload: %v", err)
		var hostErr *media.HostError
		if errors.As(err, &hostErr) {
			response.ErrorDetail(w, http.StatusInternalServerError, "Upload failed", errors.New(hostErr.Message))
			return
		}
		response.Upstream(w, "Upload failed", err)
	}
}
