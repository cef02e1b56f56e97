// Package upload implements the server side of both upload transports: signatures for direct
// uploads and the streaming proxy that relays large files to the media host.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/akanis/studio/internal/media"
	"github.com/akanis/studio/internal/retry"
)

// maxFieldBytes bounds each non-file form field.
const maxFieldBytes = 64 << 10

var (
	// ErrNoFile is returned when the multipart body has no "file" part.
	ErrNoFile = errors.New("no file provided")
	// ErrMalformed is returned for a body that is not a readable multipart form.
	ErrMalformed = errors.New("malformed multipart body")
	// ErrInvalidFolder is returned for a folder that escapes the upload root.
	ErrInvalidFolder = errors.New("invalid folder")
)

// Config parameterises a Pipeline.
type Config struct {
	TempDir      string
	Folder       string // default destination folder
	ChunkSize    int64
	MaxBodyBytes int64
	Policy       media.Policy
}

// Pipeline receives a multipart upload into a temp file, validates it and forwards it to the host.
// A temp file belongs to exactly one request and is removed on every exit path.
type Pipeline struct {
	host    media.Host
	cfg     Config
	cleanup retry.Policy
}

// NewPipeline creates a Pipeline forwarding to host.
func NewPipeline(host media.Host, cfg Config) *Pipeline {
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = media.DefaultChunkSize
	}
	if cfg.Policy.Limits == nil {
		cfg.Policy = media.DefaultPolicy
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = cfg.Policy.MaxSize() + 10*media.MB
	}
	return &Pipeline{host: host, cfg: cfg, cleanup: retry.Cleanup}
}

// DefaultFolder returns the folder used when the request names none.
func (p *Pipeline) DefaultFolder() string { return p.cfg.Folder }

// Received is an upload spooled to disk together with the other form fields.
type Received struct {
	Path        string
	Filename    string
	ContentType string
	Size        int64
	Fields      map[string][]string
}

// Value returns the first value of a form field, trimmed.
func (r *Received) Value(name string) string {
	if vs := r.Fields[name]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

// Mime returns the part content type, falling back to the filename extension.
func (r *Received) Mime() string {
	return media.DetectMime(r.ContentType, r.Filename)
}

// Receive streams the multipart body of r. The "file" part is copied to a temp file in the
// configured directory and capped at the policy's largest limit; other parts are kept as fields.
// On success the caller owns the temp file and must pass it to Discard.
func (p *Pipeline) Receive(w http.ResponseWriter, r *http.Request) (*Received, error) {
	r.Body = http.MaxBytesReader(w, r.Body, p.cfg.MaxBodyBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	rec := &Received{Fields: map[string][]string{}}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			p.Discard(r.Context(), rec)
			return nil, classifyReadErr(err)
		}

		if part.FormName() == "file" && rec.Path == "" {
			err = p.spool(part, rec)
		} else {
			err = readField(part, rec)
		}
		_ = part.Close()
		if err != nil {
			p.Discard(r.Context(), rec)
			return nil, err
		}
	}

	if rec.Path == "" {
		return nil, ErrNoFile
	}
	return rec, nil
}

func (p *Pipeline) spool(part *multipart.Part, rec *Received) error {
	rec.Filename = filepath.Base(part.FileName())
	rec.ContentType = part.Header.Get("Content-Type")

	f, err := os.CreateTemp(p.cfg.TempDir, "upload-*"+strings.ToLower(filepath.Ext(rec.Filename)))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	rec.Path = f.Name()

	limit := p.cfg.Policy.MaxSize()
	n, err := io.Copy(f, io.LimitReader(part, limit+1))
	closeErr := f.Close()
	rec.Size = n
	if err != nil {
		return classifyReadErr(err)
	}
	if closeErr != nil {
		return fmt.Errorf("write temp file: %w", closeErr)
	}
	if n > limit {
		return fmt.Errorf("%w: upload exceeds %dMB", media.ErrTooLarge, limit/media.MB)
	}
	return nil
}

func readField(part *multipart.Part, rec *Received) error {
	name := part.FormName()
	if name == "" {
		_, err := io.Copy(io.Discard, part)
		return classifyReadErr(err)
	}
	data, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
	if err != nil {
		return classifyReadErr(err)
	}
	if len(data) > maxFieldBytes {
		return fmt.Errorf("%w: field %q is too long", ErrMalformed, name)
	}
	rec.Fields[name] = append(rec.Fields[name], string(data))
	return nil
}

func classifyReadErr(err error) error {
	if err == nil {
		return nil
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: request body exceeds %d bytes", media.ErrTooLarge, maxErr.Limit)
	}
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}

// Validate checks the received file against the policy for kind.
func (p *Pipeline) Validate(rec *Received, kind media.Kind) error {
	return p.cfg.Policy.Check(kind, rec.Mime(), rec.Size)
}

// Forward validates rec and uploads it to folder as kind, using the configured chunk size.
func (p *Pipeline) Forward(ctx context.Context, rec *Received, kind media.Kind, folder string) (*media.Asset, error) {
	if err := p.Validate(rec, kind); err != nil {
		return nil, err
	}
	folder, err := p.resolveFolder(folder)
	if err != nil {
		return nil, err
	}
	asset, err := p.host.UploadFile(ctx, rec.Path, media.UploadOptions{
		Folder:       folder,
		ResourceType: kind.ResourceType(),
		Filename:     rec.Filename,
		ContentType:  rec.Mime(),
		ChunkSize:    p.cfg.ChunkSize,
	})
	if err != nil {
		return nil, fmt.Errorf("forward upload: %w", err)
	}
	if !asset.Resolvable() {
		return nil, &media.HostError{Status: http.StatusBadGateway, Message: "host response is missing public_id or secure_url"}
	}
	return asset, nil
}

func (p *Pipeline) resolveFolder(folder string) (string, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return p.cfg.Folder, nil
	}
	for _, seg := range strings.Split(folder, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidFolder, folder)
		}
	}
	return folder, nil
}

// Discard removes the temp file of rec, retrying transient failures. A final failure is logged
// and never surfaced to the caller.
func (p *Pipeline) Discard(ctx context.Context, rec *Received) {
	if rec == nil || rec.Path == "" {
		return
	}
	path := rec.Path
	err := p.cleanup.Do(context.WithoutCancel(ctx), func() error {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("upload: remove temp file %s: %v", path, err)
	}
}
