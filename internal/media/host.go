package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrAssetNotFound is returned by Host.Destroy when the asset no longer exists at the host.
var ErrAssetNotFound = errors.New("asset not found at media host")

// Asset is the host's canonical descriptor of a stored upload.
type Asset struct {
	PublicID     string  `json:"public_id"`
	SecureURL    string  `json:"secure_url"`
	URL          string  `json:"url,omitempty"`
	ResourceType string  `json:"resource_type"`
	Format       string  `json:"format,omitempty"`
	Bytes        int64   `json:"bytes"`
	Width        int     `json:"width,omitempty"`
	Height       int     `json:"height,omitempty"`
	Duration     float64 `json:"duration,omitempty"`
	Version      int64   `json:"version,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

// Resolvable reports whether the descriptor carries a stable id and a retrievable URL.
func (a *Asset) Resolvable() bool {
	return a != nil && a.PublicID != "" && a.SecureURL != ""
}

// UploadOptions parameterise a server-side upload.
type UploadOptions struct {
	Folder       string
	ResourceType string
	Filename     string
	ContentType  string
	// ChunkSize overrides the host's default chunk size when positive.
	ChunkSize int64
}

// Host is the external media host as seen by the server, which holds long-lived credentials.
type Host interface {
	// UploadFile forwards the file at path, chunking large files.
	UploadFile(ctx context.Context, path string, opts UploadOptions) (*Asset, error)
	// Destroy deletes the asset. It returns ErrAssetNotFound when the host has no such asset.
	Destroy(ctx context.Context, publicID, resourceType string) error
}

// DirectTarget describes where clients send direct signed uploads.
type DirectTarget interface {
	CloudName() string
	APIKey() string
	UploadURL(resourceType string) string
}

// HostError is a failure response from the media host.
type HostError struct {
	Status  int
	Message string
}

func (e *HostError) Error() string {
	return fmt.Sprintf("media host: %s (status %d)", e.Message, e.Status)
}

// DecodeHostError reads {"error":{"message":"..."}}, keeping the host's wording verbatim.
func DecodeHostError(resp *http.Response) error {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&errResp)
	msg := errResp.Error.Message
	if msg == "" {
		msg = resp.Status
	}
	return &HostError{Status: resp.StatusCode, Message: msg}
}
