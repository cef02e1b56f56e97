// Package gallery manages the public portfolio records and their media assets.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/akanis/studio/internal/db"
	"github.com/akanis/studio/internal/media"
)

// Item is one published photo or video.
type Item struct {
	ID         string     `json:"id"         example:"5b0f3c2e-8a5e-4a8e-9d55-0c7f1d0b6a11"`
	Title      string     `json:"title"      example:"Autumn campaign"`
	Tags       []string   `json:"tags"`
	Type       media.Kind `json:"type"       example:"video"`
	URL        string     `json:"url"        example:"https://res.cloudinary.com/akanis/video/upload/v1/studio-gallery/clip.mp4"`
	ExternalID string     `json:"publicId"   example:"studio-gallery/clip"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// NewItem is the data needed to persist an item.
type NewItem struct {
	Title      string
	Tags       []string
	Type       media.Kind
	URL        string
	ExternalID string
}

// Store is the persistence the service depends on.
type Store interface {
	List(ctx context.Context, kind media.Kind) ([]Item, error)
	Create(ctx context.Context, in NewItem) (*Item, error)
	Get(ctx context.Context, id string) (*Item, error)
	Delete(ctx context.Context, id string) error
}

// Repository stores items in PostgreSQL.
type Repository struct {
	db db.Querier
}

// NewRepository creates a new Repository on a pool or anything else that queries like one.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

const itemColumns = `id, title, tags, type, url, external_id, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	it := &Item{}
	var kind string
	if err := row.Scan(&it.ID, &it.Title, &it.Tags, &kind, &it.URL, &it.ExternalID, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Type = media.Kind(kind)
	if it.Tags == nil {
		it.Tags = []string{}
	}
	return it, nil
}

// List returns items newest first, optionally restricted to kind.
func (r *Repository) List(ctx context.Context, kind media.Kind) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM gallery_items`
	args := []any{}
	if kind != "" {
		query += ` WHERE type = $1`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list gallery items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gallery item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list gallery items: %w", err)
	}
	return items, nil
}

// Create inserts an item and returns the stored record.
func (r *Repository) Create(ctx context.Context, in NewItem) (*Item, error) {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	it, err := scanItem(r.db.QueryRow(ctx,
		`INSERT INTO gallery_items (title, tags, type, url, external_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+itemColumns,
		in.Title, tags, string(in.Type), in.URL, in.ExternalID,
	))
	if err != nil {
		return nil, fmt.Errorf("create gallery item: %w", err)
	}
	return it, nil
}

// Get fetches an item by id.
func (r *Repository) Get(ctx context.Context, id string) (*Item, error) {
	it, err := scanItem(r.db.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM gallery_items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get gallery item: %w", err)
	}
	return it, nil
}

// Delete removes an item. It returns ErrNotFound when no row matched.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM gallery_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gallery item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
