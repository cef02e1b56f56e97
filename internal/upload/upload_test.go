package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/akanis/studio/internal/media"
)

type fakeHost struct {
	mu      sync.Mutex
	calls   []media.UploadOptions
	content []string
	err     error
	asset   *media.Asset
}

func (f *fakeHost) UploadFile(_ context.Context, path string, opts media.UploadOptions) (*media.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f.calls = append(f.calls, opts)
	f.content = append(f.content, string(data))
	if f.err != nil {
		return nil, f.err
	}
	if f.asset != nil {
		return f.asset, nil
	}
	return &media.Asset{
		PublicID:     opts.Folder + "/asset",
		SecureURL:    "https://cdn.example/" + opts.Folder + "/asset",
		ResourceType: opts.ResourceType,
		Bytes:        int64(len(data)),
	}, nil
}

func (f *fakeHost) Destroy(context.Context, string, string) error { return nil }

type fakeTarget struct{}

func (fakeTarget) CloudName() string { return "demo" }
func (fakeTarget) APIKey() string    { return "key-1" }
func (fakeTarget) UploadURL(rt string) string {
	return "https://api.example/v1_1/demo/" + rt + "/upload"
}

var smallPolicy = media.Policy{
	Types:  media.DefaultPolicy.Types,
	Limits: map[media.Kind]int64{media.KindPhoto: 10, media.KindVideo: 20},
}

func newTestPipeline(t *testing.T, host media.Host, maxBody int64) (*Pipeline, string) {
	t.Helper()
	dir := t.TempDir()
	p := NewPipeline(host, Config{
		TempDir:      dir,
		Folder:       "studio-gallery",
		ChunkSize:    6_000_000,
		MaxBodyBytes: maxBody,
		Policy:       smallPolicy,
	})
	return p, dir
}

type filePart struct {
	name, contentType, data string
}

func multipartBody(t *testing.T, file *filePart, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+file.name+`"`)
		if file.contentType != "" {
			h.Set("Content-Type", file.contentType)
		}
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write([]byte(file.data))
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, mw.FormDataContentType()
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp dir should be empty, found %d entries", len(entries))
	}
}

func TestProxy(t *testing.T) {
	tests := []struct {
		name       string
		file       *filePart
		fields     map[string]string
		hostErr    error
		maxBody    int64
		wantStatus int
		wantCalls  int
	}{
		{
			name:       "video defaults",
			file:       &filePart{"clip.mp4", "video/mp4", "0123456789"},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "image with extension fallback",
			file:       &filePart{"still.webp", "application/octet-stream", "abc"},
			fields:     map[string]string{"resource_type": "image", "folder": "events/2026"},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "missing file",
			fields:     map[string]string{"resource_type": "video"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unsupported mime",
			file:       &filePart{"doc.pdf", "application/pdf", "%PDF"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad resource type",
			file:       &filePart{"clip.mp4", "video/mp4", "x"},
			fields:     map[string]string{"resource_type": "raw"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "folder traversal",
			file:       &filePart{"clip.mp4", "video/mp4", "x"},
			fields:     map[string]string{"folder": "../secrets"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "photo over kind limit",
			file:       &filePart{"big.jpg", "image/jpeg", strings.Repeat("x", 15)},
			fields:     map[string]string{"resource_type": "image"},
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "file over largest limit",
			file:       &filePart{"huge.mp4", "video/mp4", strings.Repeat("x", 50)},
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "body over cap",
			file:       &filePart{"clip.mp4", "video/mp4", "0123456789"},
			maxBody:    64,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "host failure",
			file:       &filePart{"clip.mp4", "video/mp4", "0123456789"},
			hostErr:    &media.HostError{Status: 400, Message: "Invalid Signature"},
			wantStatus: http.StatusInternalServerError,
			wantCalls:  1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			host := &fakeHost{err: tc.hostErr}
			p, dir := newTestPipeline(t, host, tc.maxBody)
			h := NewHandler(p, nil, nil)

			body, ct := multipartBody(t, tc.file, tc.fields)
			req := httptest.NewRequest(http.MethodPost, "/api/upload/proxy", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()

			h.Proxy(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if len(host.calls) != tc.wantCalls {
				t.Fatalf("host calls = %d, want %d", len(host.calls), tc.wantCalls)
			}
			assertDirEmpty(t, dir)
		})
	}
}

func TestProxyForwardsWithChunkSizeAndDefaults(t *testing.T) {
	host := &fakeHost{}
	p, _ := newTestPipeline(t, host, 0)
	body, ct := multipartBody(t, &filePart{"clip.mov", "video/quicktime", "0123456789"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/proxy", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	NewHandler(p, nil, nil).Proxy(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	opts := host.calls[0]
	if opts.ChunkSize != 6_000_000 || opts.Folder != "studio-gallery" || opts.ResourceType != media.ResourceVideo {
		t.Fatalf("unexpected upload options: %+v", opts)
	}
	if host.content[0] != "0123456789" {
		t.Fatalf("forwarded content = %q", host.content[0])
	}
	var asset media.Asset
	if err := json.Unmarshal(rec.Body.Bytes(), &asset); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !asset.Resolvable() {
		t.Fatalf("response should carry public_id and secure_url: %s", rec.Body.String())
	}
}

func TestProxySurfacesHostMessage(t *testing.T) {
	host := &fakeHost{err: &media.HostError{Status: 400, Message: "Invalid Signature"}}
	p, _ := newTestPipeline(t, host, 0)
	body, ct := multipartBody(t, &filePart{"clip.mp4", "video/mp4", "x"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/upload/proxy", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	NewHandler(p, nil, nil).Proxy(rec, req)

	var out struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Message != "Upload failed" || out.Error != "Invalid Signature" {
		t.Fatalf("unexpected error body: %+v", out)
	}
}

func TestForwardRejectsUnresolvableAsset(t *testing.T) {
	host := &fakeHost{asset: &media.Asset{PublicID: "only-id"}}
	p, _ := newTestPipeline(t, host, 0)
	path := t.TempDir() + "/a.jpg"
	if err := os.WriteFile(path, []byte("abc"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	rec := &Received{Path: path, Filename: "a.jpg", ContentType: "image/jpeg", Size: 3}
	_, err := p.Forward(t.Context(), rec, media.KindPhoto, "")
	var hostErr *media.HostError
	if !errors.As(err, &hostErr) {
		t.Fatalf("expected HostError, got %v", err)
	}
}

func TestSignature(t *testing.T) {
	signer := media.NewSigner("secret-1")
	p, _ := newTestPipeline(t, &fakeHost{}, 0)
	h := NewHandler(p, signer, fakeTarget{})
	h.now = func() time.Time { return time.Unix(1700000000, 0) }

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantRT     string
	}{
		{name: "default image", body: `{}`, wantStatus: http.StatusOK, wantRT: "image"},
		{name: "empty body", body: ``, wantStatus: http.StatusOK, wantRT: "image"},
		{name: "video", body: `{"resourceType":"video"}`, wantStatus: http.StatusOK, wantRT: "video"},
		{name: "invalid", body: `{"resourceType":"raw"}`, wantStatus: http.StatusBadRequest},
		{name: "bad json", body: `{`, wantStatus: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Signature(rec, httptest.NewRequest(http.MethodPost, "/api/cloudinary-signature", strings.NewReader(tc.body)))
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantStatus != http.StatusOK {
				return
			}
			var out SignatureResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.ResourceType != tc.wantRT || out.CloudName != "demo" || out.APIKey != "key-1" {
				t.Fatalf("unexpected response: %+v", out)
			}
			if out.Folder != "studio-gallery" || out.Timestamp != 1700000000 {
				t.Fatalf("unexpected folder/timestamp: %+v", out)
			}
			if want := (fakeTarget{}).UploadURL(tc.wantRT); out.UploadURL != want {
				t.Fatalf("upload url = %q", out.UploadURL)
			}
			if !signer.Verify(media.UploadParams(out.Folder, out.Timestamp), out.Signature) {
				t.Fatalf("signature does not verify")
			}
		})
	}
}

func TestSignatureUnavailableWithoutDirectTarget(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeHost{}, 0)
	rec := httptest.NewRecorder()
	NewHandler(p, nil, nil).Signature(rec, httptest.NewRequest(http.MethodPost, "/api/cloudinary-signature", strings.NewReader(`{}`)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
