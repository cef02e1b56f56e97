// Package media holds the upload policy shared by clients and the server, request signing for
// direct uploads, and adapters for the external media host.
package media

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// MB is one mebibyte; all size limits are expressed in it.
const MB int64 = 1 << 20

// ProxyThreshold is the size above which files go through the server proxy instead of a
// direct signed upload. Clients also compress videos above it before choosing a transport.
const ProxyThreshold = 50 * MB

var (
	// ErrUnsupportedType is returned for a mime type outside the allow-list of the target kind.
	ErrUnsupportedType = errors.New("unsupported media type")
	// ErrTooLarge is returned when a file exceeds the size limit of its kind.
	ErrTooLarge = errors.New("file too large")
	// ErrInvalidKind is returned for a gallery type other than photo or video.
	ErrInvalidKind = errors.New("type must be photo or video")
	// ErrInvalidResourceType is returned for a host resource type other than image or video.
	ErrInvalidResourceType = errors.New("resource type must be image or video")
)

// Kind is the gallery-level media type.
type Kind string

const (
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
)

// Host resource types. Photos are stored as "image" at the host.
const (
	ResourceImage = "image"
	ResourceVideo = "video"
)

// ParseKind validates a gallery type string.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPhoto:
		return KindPhoto, nil
	case KindVideo:
		return KindVideo, nil
	}
	return "", ErrInvalidKind
}

// KindFromResourceType maps a host resource type back to a gallery kind.
func KindFromResourceType(rt string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(rt)) {
	case ResourceImage:
		return KindPhoto, nil
	case ResourceVideo:
		return KindVideo, nil
	}
	return "", ErrInvalidResourceType
}

// ResourceType returns the host resource type for the kind.
func (k Kind) ResourceType() string {
	if k == KindVideo {
		return ResourceVideo
	}
	return ResourceImage
}

// Policy is the mime allow-list and size limit per kind.
type Policy struct {
	Types  map[Kind][]string
	Limits map[Kind]int64
}

// DefaultPolicy is enforced by both the client uploader and the proxy endpoint.
var DefaultPolicy = Policy{
	Types: map[Kind][]string{
		KindPhoto: {"image/jpeg", "image/png", "image/webp", "image/avif"},
		KindVideo: {"video/mp4", "video/webm", "video/quicktime", "video/x-msvideo"},
	},
	Limits: map[Kind]int64{
		KindPhoto: 50 * MB,
		KindVideo: 500 * MB,
	},
}

// CheckType rejects mime types outside the allow-list of kind.
func (p Policy) CheckType(kind Kind, mimeType string) error {
	mt := NormalizeMime(mimeType)
	for _, allowed := range p.Types[kind] {
		if mt == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not a supported %s format (supported: %s)",
		ErrUnsupportedType, mt, kind, strings.Join(p.Types[kind], ", "))
}

// CheckSize rejects files above the limit of kind.
func (p Policy) CheckSize(kind Kind, size int64) error {
	limit, ok := p.Limits[kind]
	if !ok {
		return ErrInvalidKind
	}
	if size > limit {
		return fmt.Errorf("%w: %s exceeds %dMB (received %.2fMB)",
			ErrTooLarge, kind, limit/MB, float64(size)/float64(MB))
	}
	return nil
}

// Check applies both the type and size rules.
func (p Policy) Check(kind Kind, mimeType string, size int64) error {
	if err := p.CheckType(kind, mimeType); err != nil {
		return err
	}
	return p.CheckSize(kind, size)
}

// MaxSize is the largest limit across kinds.
func (p Policy) MaxSize() int64 {
	var max int64
	for _, l := range p.Limits {
		if l > max {
			max = l
		}
	}
	return max
}

// NormalizeMime lower-cases a content type and strips its parameters.
func NormalizeMime(ct string) string {
	ct = strings.TrimSpace(ct)
	if ct == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return strings.ToLower(mt)
	}
	return strings.ToLower(ct)
}

var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".avif": "image/avif",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
}

// DetectMime returns the declared content type, falling back to the filename extension when the
// declared type is empty or generic.
func DetectMime(declared, filename string) string {
	mt := NormalizeMime(declared)
	if mt != "" && mt != "application/octet-stream" {
		return mt
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return NormalizeMime(t)
	}
	return mt
}
