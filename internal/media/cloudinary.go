package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// DefaultChunkSize is the chunk size used for large uploads.
const DefaultChunkSize int64 = 6_000_000

// CloudinaryConfig configures the Cloudinary backend.
type CloudinaryConfig struct {
	UploadPrefix string // e.g. https://api.cloudinary.com
	CloudName    string
	APIKey       string
	APISecret    string
	ChunkSize    int64
}

// Cloudinary uploads and destroys assets through the Cloudinary SDK. Files larger than the chunk
// size go out as a sequence of Content-Range requests sharing one upload id.
// Configuration is read-only after construction.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	signer *Signer
}

// NewCloudinary validates cfg and returns a ready client.
func NewCloudinary(cfg CloudinaryConfig) (*Cloudinary, error) {
	if strings.TrimSpace(cfg.CloudName) == "" || strings.TrimSpace(cfg.APIKey) == "" || cfg.APISecret == "" {
		return nil, errors.New("media host requires cloud name, api key and api secret")
	}
	conf, err := config.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	if prefix := strings.TrimRight(strings.TrimSpace(cfg.UploadPrefix), "/"); prefix != "" {
		conf.API.UploadPrefix = prefix
	}
	conf.API.ChunkSize = DefaultChunkSize
	if cfg.ChunkSize > 0 {
		conf.API.ChunkSize = cfg.ChunkSize
	}

	cld, err := cloudinary.NewFromConfiguration(*conf)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}

	return &Cloudinary{cld: cld, signer: NewSigner(cfg.APISecret)}, nil
}

// CloudName returns the account name clients address.
func (c *Cloudinary) CloudName() string { return c.cld.Config.Cloud.CloudName }

// APIKey returns the public API key.
func (c *Cloudinary) APIKey() string { return c.cld.Config.Cloud.APIKey }

// Signer exposes the signer bound to the account secret.
func (c *Cloudinary) Signer() *Signer { return c.signer }

// UploadURL returns the upload endpoint for a resource type.
func (c *Cloudinary) UploadURL(resourceType string) string {
	return fmt.Sprintf("%s/%s/%s/upload",
		api.BaseURL(c.cld.Config.API.UploadPrefix, ""), url.PathEscape(c.CloudName()), resourceType)
}

// UploadFile uploads the file at path. opts.ChunkSize, when positive, replaces the configured
// chunk size for this call.
func (c *Cloudinary) UploadFile(ctx context.Context, path string, opts UploadOptions) (*Asset, error) {
	resourceType := opts.ResourceType
	if resourceType == "" {
		resourceType = ResourceImage
	}

	up := c.cld.Upload
	if opts.ChunkSize > 0 {
		up.Config.API.ChunkSize = opts.ChunkSize
	}

	res, err := up.Upload(ctx, path, uploader.UploadParams{
		Folder:       opts.Folder,
		ResourceType: resourceType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload to media host: %w", err)
	}
	if res.Error.Message != "" {
		return nil, &HostError{Status: http.StatusBadGateway, Message: res.Error.Message}
	}
	return assetFromResult(res), nil
}

// Destroy deletes publicID. A "not found" result maps to ErrAssetNotFound.
func (c *Cloudinary) Destroy(ctx context.Context, publicID, resourceType string) error {
	if resourceType == "" {
		resourceType = ResourceImage
	}
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("destroy %q: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return &HostError{Status: http.StatusBadGateway, Message: res.Error.Message}
	}
	switch res.Result {
	case "ok":
		return nil
	case "not found":
		return ErrAssetNotFound
	default:
		return &HostError{Status: http.StatusBadGateway, Message: "unexpected destroy result: " + res.Result}
	}
}

func assetFromResult(res *uploader.UploadResult) *Asset {
	a := &Asset{
		PublicID:     res.PublicID,
		SecureURL:    res.SecureURL,
		URL:          res.URL,
		ResourceType: res.ResourceType,
		Format:       res.Format,
		Bytes:        int64(res.Bytes),
		Width:        res.Width,
		Height:       res.Height,
		Version:      int64(res.Version),
	}
	if !res.CreatedAt.IsZero() {
		a.CreatedAt = res.CreatedAt.UTC().Format(time.RFC3339)
	}
	return a
}
