package gallery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/akanis/studio/internal/media"
	"github.com/akanis/studio/internal/retry"
)

var (
	// ErrNotFound is returned when an item does not exist.
	ErrNotFound = errors.New("gallery item not found")
	// ErrInvalidInput is returned for a request missing required fields or carrying bad values.
	ErrInvalidInput = errors.New("invalid gallery input")
	// ErrRemoteDelete is returned when the media host refused to delete an asset. The record is kept.
	ErrRemoteDelete = errors.New("failed to delete asset from media host")
)

// CreateInput is the validated shape of a create request.
type CreateInput struct {
	Title      string
	Tags       []string
	Type       string
	URL        string
	ExternalID string
}

// Service contains gallery business logic.
type Service struct {
	store Store
	host  media.Host
}

// NewService creates a new gallery Service.
func NewService(store Store, host media.Host) *Service {
	return &Service{store: store, host: host}
}

// List returns items newest first. typeFilter is "", "photo" or "video".
func (s *Service) List(ctx context.Context, typeFilter string) ([]Item, error) {
	var kind media.Kind
	if strings.TrimSpace(typeFilter) != "" {
		k, err := media.ParseKind(typeFilter)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		kind = k
	}
	return s.store.List(ctx, kind)
}

// Create stores a record for an asset that is already at the media host.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Item, error) {
	kind, err := media.ParseKind(in.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	url := strings.TrimSpace(in.URL)
	externalID := strings.TrimSpace(in.ExternalID)
	if url == "" || externalID == "" {
		return nil, fmt.Errorf("%w: type, url and publicId are required", ErrInvalidInput)
	}
	return s.store.Create(ctx, NewItem{
		Title:      strings.TrimSpace(in.Title),
		Tags:       NormalizeTags(in.Tags...),
		Type:       kind,
		URL:        url,
		ExternalID: externalID,
	})
}

// CreateFromAsset stores a record for an asset the server just uploaded. If the record cannot be
// stored the asset is destroyed again so no orphan is left at the host.
func (s *Service) CreateFromAsset(ctx context.Context, title string, tags []string, kind media.Kind, asset *media.Asset) (*Item, error) {
	item, err := s.Create(ctx, CreateInput{
		Title:      title,
		Tags:       tags,
		Type:       string(kind),
		URL:        asset.SecureURL,
		ExternalID: asset.PublicID,
	})
	if err == nil {
		return item, nil
	}

	cleanupErr := retry.Cleanup.Do(context.WithoutCancel(ctx), func() error {
		err := s.host.Destroy(context.WithoutCancel(ctx), asset.PublicID, kind.ResourceType())
		if errors.Is(err, media.ErrAssetNotFound) {
			return nil
		}
		return err
	})
	if cleanupErr != nil {
		log.Printf("gallery: orphaned asset %s after failed create: %v", asset.PublicID, cleanupErr)
	}
	return nil, err
}

// Delete removes an item in two steps. The remote asset is destroyed first; if that fails the
// record is kept and ErrRemoteDelete is returned. Only then is the record deleted. An asset the
// host no longer has counts as destroyed, so retrying after a failed record delete completes.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	item, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.host.Destroy(ctx, item.ExternalID, item.Type.ResourceType())
	switch {
	case errors.Is(err, media.ErrAssetNotFound):
		log.Printf("gallery: asset %s already gone at host", item.ExternalID)
	case err != nil:
		return fmt.Errorf("%w: %w", ErrRemoteDelete, err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("asset destroyed but record kept: %w", err)
	}
	return nil
}
