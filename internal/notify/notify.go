// Package notify sends the e-mails triggered by new contact inquiries.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Message is one outgoing HTML e-mail.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Inquiry is the data rendered into inquiry e-mails. All fields are escaped by the templates.
type Inquiry struct {
	Name     string
	Email    string
	Phone    string
	Service  string
	Budget   string
	Location string
	Message  string
}

// Notifier renders inquiry mails and hands them to a Sender.
type Notifier struct {
	sender Sender
	owner  string
	studio string
	now    func() time.Time
}

// NewNotifier creates a Notifier. owner receives the internal notification; studio is the
// name shown to the person who wrote in.
func NewNotifier(sender Sender, owner, studio string) *Notifier {
	return &Notifier{sender: sender, owner: owner, studio: studio, now: time.Now}
}

type inquiryView struct {
	Inquiry
	Studio string
	Year   int
}

// InquiryReceived sends the owner notification and then the confirmation to the sender of the
// inquiry. The first failure is returned.
func (n *Notifier) InquiryReceived(ctx context.Context, in Inquiry) error {
	view := inquiryView{Inquiry: in, Studio: n.studio, Year: n.now().Year()}

	ownerHTML, err := render("owner_inquiry.html", view)
	if err != nil {
		return err
	}
	if n.owner != "" {
		if err := n.sender.Send(ctx, Message{
			To:      n.owner,
			Subject: "New Inquiry – " + in.Service,
			HTML:    ownerHTML,
		}); err != nil {
			return fmt.Errorf("send owner notification: %w", err)
		}
	} else {
		log.Printf("notify: no owner address configured, skipping owner notification")
	}

	confirmHTML, err := render("confirmation.html", view)
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, Message{
		To:      in.Email,
		Subject: "We’ve received your inquiry – " + n.studio,
		HTML:    confirmHTML,
	}); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}
	return nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// LogSender logs messages instead of sending them. It is used when SMTP is not configured.
type LogSender struct{}

// Send implements Sender.
func (LogSender) Send(_ context.Context, msg Message) error {
	log.Printf("notify: mail disabled, would send %q to %s", msg.Subject, msg.To)
	return nil
}
