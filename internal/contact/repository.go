// Package contact stores inquiries sent through the public contact form.
package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/akanis/studio/internal/db"
)

// Lead is one contact inquiry.
type Lead struct {
	ID        string    `json:"id"        example:"0d5e8a7c-1b2f-4c3d-9e4f-5a6b7c8d9e0f"`
	Name      string    `json:"name"      example:"Dana Levi"`
	Email     string    `json:"email"     example:"dana@example.com"`
	Phone     string    `json:"phone"     example:"+1 555 0100"`
	Service   string    `json:"service"   example:"videography"`
	Budget    string    `json:"budget"    example:"5k-10k"`
	Location  string    `json:"location"  example:"Tel Aviv"`
	Message   string    `json:"message"   example:"We need a launch film for spring."`
	Status    string    `json:"status"    example:"new"`
	IsRead    bool      `json:"isRead"    example:"false"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is the persistence the service depends on.
type Store interface {
	Create(ctx context.Context, in Input) (*Lead, error)
	List(ctx context.Context) ([]Lead, error)
}

// Repository stores leads in PostgreSQL.
type Repository struct {
	db db.Querier
}

// NewRepository creates a new Repository on a pool or anything else that queries like one.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

const leadColumns = `id, name, email, phone, service, budget, location, message, status, is_read, created_at, updated_at`

func scanLead(row pgx.Row) (*Lead, error) {
	l := &Lead{}
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Service, &l.Budget, &l.Location,
		&l.Message, &l.Status, &l.IsRead, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// Create inserts a validated lead with status "new".
func (r *Repository) Create(ctx context.Context, in Input) (*Lead, error) {
	l, err := scanLead(r.db.QueryRow(ctx,
		`INSERT INTO contact_leads (name, email, phone, service, budget, location, message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+leadColumns,
		in.Name, in.Email, in.Phone, in.Service, in.Budget, in.Location, in.Message,
	))
	if err != nil {
		return nil, fmt.Errorf("create contact lead: %w", err)
	}
	return l, nil
}

// List returns all leads newest first.
func (r *Repository) List(ctx context.Context) ([]Lead, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+leadColumns+` FROM contact_leads ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list contact leads: %w", err)
	}
	defer rows.Close()

	leads := []Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact lead: %w", err)
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contact leads: %w", err)
	}
	return leads, nil
}
