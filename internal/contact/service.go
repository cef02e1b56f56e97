package contact

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/akanis/studio/internal/notify"
)

// ErrInvalidInput is returned for a submission that breaks a field rule.
var ErrInvalidInput = errors.New("invalid contact submission")

// ErrNotification is returned when the lead was stored but the mails could not be sent.
var ErrNotification = errors.New("contact notification failed")

// Services are the inquiry topics a lead may choose.
var Services = []string{
	"ad-shoot", "photo-shoot", "videography", "video-production",
	"branding", "social-media", "marketing", "website-design",
	"web-dev", "app-dev", "ui-ux", "custom-software",
}

// Statuses a lead moves through. New leads start as "new".
var Statuses = []string{"new", "in-progress", "closed", "archived"}

const maxOptionalLen = 200

// Input is a contact form submission.
type Input struct {
	Name     string `json:"name"     example:"Dana Levi"`
	Email    string `json:"email"    example:"dana@example.com"`
	Phone    string `json:"phone"    example:"+1 555 0100"`
	Service  string `json:"service"  example:"videography"`
	Budget   string `json:"budget"   example:"5k-10k"`
	Location string `json:"location" example:"Tel Aviv"`
	Message  string `json:"message"  example:"We need a launch film for spring."`
}

// Notifier is told about every stored lead.
type Notifier interface {
	InquiryReceived(ctx context.Context, in notify.Inquiry) error
}

// Service contains contact business logic.
type Service struct {
	store    Store
	notifier Notifier
}

// NewService creates a new contact Service.
func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// Normalize trims every field and lower-cases the email.
func (in Input) Normalize() Input {
	return Input{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:    strings.TrimSpace(in.Phone),
		Service:  strings.ToLower(strings.TrimSpace(in.Service)),
		Budget:   strings.TrimSpace(in.Budget),
		Location: strings.TrimSpace(in.Location),
		Message:  strings.TrimSpace(in.Message),
	}
}

// Validate checks a normalized submission.
func (in Input) Validate() error {
	if in.Name == "" || in.Email == "" || in.Service == "" || in.Message == "" {
		return fmt.Errorf("%w: Required fields missing", ErrInvalidInput)
	}
	if utf8.RuneCountInString(in.Name) > 100 {
		return fmt.Errorf("%w: name must be at most 100 characters", ErrInvalidInput)
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	if !validService(in.Service) {
		return fmt.Errorf("%w: unknown service %q", ErrInvalidInput, in.Service)
	}
	if n := utf8.RuneCountInString(in.Message); n < 10 || n > 2000 {
		return fmt.Errorf("%w: message must be 10 to 2000 characters", ErrInvalidInput)
	}
	for _, v := range []string{in.Phone, in.Budget, in.Location} {
		if utf8.RuneCountInString(v) > maxOptionalLen {
			return fmt.Errorf("%w: optional fields are limited to %d characters", ErrInvalidInput, maxOptionalLen)
		}
	}
	return nil
}

func validService(s string) bool {
	for _, v := range Services {
		if s == v {
			return true
		}
	}
	return false
}

// Submit validates and stores a lead, then sends the owner and confirmation mails. When the mails
// fail the stored lead is returned together with ErrNotification.
func (s *Service) Submit(ctx context.Context, in Input) (*Lead, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	lead, err := s.store.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.InquiryReceived(ctx, notify.Inquiry{
		Name:     lead.Name,
		Email:    lead.Email,
		Phone:    lead.Phone,
		Service:  lead.Service,
		Budget:   lead.Budget,
		Location: lead.Location,
		Message:  lead.Message,
	}); err != nil {
		return lead, fmt.Errorf("%w: %w", ErrNotification, err)
	}
	return lead, nil
}

// List returns all leads newest first.
func (s *Service) List(ctx context.Context) ([]Lead, error) {
	return s.store.List(ctx)
}
