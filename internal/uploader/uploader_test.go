package uploader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/akanis/studio/internal/gallery"
	"github.com/akanis/studio/internal/media"
)

// fakeStudio serves the studio API and a direct-upload media host on one test server.
type fakeStudio struct {
	mu          sync.Mutex
	hits        []string
	directSizes []int64
	proxySizes  []int64
	created     []CreateItem
	hostErr     string
	noDirect    bool
	srv         *httptest.Server
}

func newFakeStudio(t *testing.T) *fakeStudio {
	t.Helper()
	f := &fakeStudio{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/cloudinary-signature", func(w http.ResponseWriter, r *http.Request) {
		f.hit("signature")
		if f.noDirect {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"message":"Direct uploads are not available on this media backend"}`)
			return
		}
		var req struct{ ResourceType string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(signatureResponse{
			Timestamp:    1700000000,
			Signature:    "sig",
			CloudName:    "demo",
			APIKey:       "key-1",
			ResourceType: req.ResourceType,
			Folder:       "studio-gallery",
			UploadURL:    f.srv.URL + "/host/" + req.ResourceType + "/upload",
		})
	})
	mux.HandleFunc("POST /host/{rt}/upload", func(w http.ResponseWriter, r *http.Request) {
		f.hit("host")
		if f.hostErr != "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `{"error":{"message":%q}}`, f.hostErr)
			return
		}
		size := f.readFile(t, r, map[string]string{"api_key": "key-1", "signature": "sig", "folder": "studio-gallery"})
		f.mu.Lock()
		f.directSizes = append(f.directSizes, size)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(media.Asset{
			PublicID:     "studio-gallery/direct",
			SecureURL:    "https://cdn.example/direct",
			ResourceType: r.PathValue("rt"),
		})
	})
	mux.HandleFunc("POST /api/upload/proxy", func(w http.ResponseWriter, r *http.Request) {
		f.hit("proxy")
		size := f.readFile(t, r, map[string]string{"resource_type": "video"})
		f.mu.Lock()
		f.proxySizes = append(f.proxySizes, size)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(media.Asset{PublicID: "studio-gallery/proxied", SecureURL: "https://cdn.example/proxied"})
	})
	mux.HandleFunc("POST /api/gallery", func(w http.ResponseWriter, r *http.Request) {
		f.hit("gallery")
		var in CreateItem
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		f.created = append(f.created, in)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(gallery.Item{
			ID:         "item-1",
			Title:      in.Title,
			Tags:       in.Tags,
			Type:       media.Kind(in.Type),
			URL:        in.URL,
			ExternalID: in.PublicID,
			CreatedAt:  time.Unix(1700000000, 0),
		})
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeStudio) hit(name string) {
	f.mu.Lock()
	f.hits = append(f.hits, name)
	f.mu.Unlock()
}

func (f *fakeStudio) readFile(t *testing.T, r *http.Request, wantFields map[string]string) int64 {
	t.Helper()
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		t.Errorf("parse multipart: %v", err)
		return -1
	}
	for k, v := range wantFields {
		if got := r.FormValue(k); got != v {
			t.Errorf("field %s = %q, want %q", k, got, v)
		}
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		t.Errorf("form file: %v", err)
		return -1
	}
	defer file.Close()
	n, _ := io.Copy(io.Discard, file)
	return n
}

func (f *fakeStudio) hitList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.hits...)
}

type sizedCompressor struct {
	size  int64
	err   error
	calls int
}

func (s *sizedCompressor) Compress(_ context.Context, path string) (string, func(), error) {
	s.calls++
	if s.err != nil {
		return "", nil, s.err
	}
	out := filepath.Join(filepath.Dir(path), "compressed.mp4")
	if err := os.WriteFile(out, make([]byte, s.size), 0o600); err != nil {
		return "", nil, err
	}
	return out, func() { _ = os.Remove(out) }, nil
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) OnEvent(e Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) kinds() []EventKind {
	var out []EventKind
	for _, e := range l.events {
		out = append(out, e.Kind)
	}
	return out
}

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, make([]byte, size), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func newTestClient(studio *fakeStudio, comp Compressor, events *eventLog) *Client {
	c := New(studio.srv.URL, WithCompressor(comp), WithObserver(events))
	c.threshold = 100
	return c
}

func TestUploadRejectsBeforeNetwork(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		size    int
		kind    media.Kind
		policy  *media.Policy
		wantErr error
	}{
		{name: "unsupported type", file: "brief.pdf", size: 10, kind: media.KindPhoto, wantErr: media.ErrUnsupportedType},
		{name: "video as photo", file: "clip.mp4", size: 10, kind: media.KindPhoto, wantErr: media.ErrUnsupportedType},
		{name: "bad kind", file: "clip.mp4", size: 10, kind: "audio", wantErr: media.ErrInvalidKind},
		{
			name: "too large",
			file: "still.jpg", size: 20, kind: media.KindPhoto,
			policy:  &media.Policy{Types: media.DefaultPolicy.Types, Limits: map[media.Kind]int64{media.KindPhoto: 10, media.KindVideo: 10}},
			wantErr: media.ErrTooLarge,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			studio := newFakeStudio(t)
			events := &eventLog{}
			comp := &sizedCompressor{size: 1}
			c := newTestClient(studio, comp, events)
			if tc.policy != nil {
				c.policy = *tc.policy
			}

			_, err := c.Upload(t.Context(), Request{Path: writeFile(t, tc.file, tc.size), Kind: tc.kind})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if hits := studio.hitList(); len(hits) != 0 {
				t.Fatalf("no request should be made, got %v", hits)
			}
			if comp.calls != 0 || len(events.events) != 0 {
				t.Fatalf("rejected files must not be compressed or reported")
			}
		})
	}
}

func TestUploadCompressedVideoGoesDirect(t *testing.T) {
	studio := newFakeStudio(t)
	events := &eventLog{}
	comp := &sizedCompressor{size: 60}
	c := newTestClient(studio, comp, events)

	item, err := c.Upload(t.Context(), Request{
		Path:  writeFile(t, "reel.mov", 150),
		Kind:  media.KindVideo,
		Title: "Reel",
		Tags:  []string{"brand"},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	want := []EventKind{CompressionStarted, UploadStarted, UploadSucceeded}
	if got := events.kinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	if events.events[1].Transport != TransportDirect || events.events[1].Size != 60 {
		t.Fatalf("upload_started = %+v", events.events[1])
	}
	if got := studio.hitList(); !reflect.DeepEqual(got, []string{"signature", "host", "gallery"}) {
		t.Fatalf("hits = %v", got)
	}
	if studio.directSizes[0] != 60 {
		t.Fatalf("host received %d bytes, want the compressed 60", studio.directSizes[0])
	}
	if item.ExternalID != "studio-gallery/direct" || studio.created[0].PublicID != "studio-gallery/direct" || studio.created[0].Title != "Reel" {
		t.Fatalf("gallery record = %+v / %+v", item, studio.created[0])
	}
}

func TestUploadLargeVideoGoesThroughProxy(t *testing.T) {
	studio := newFakeStudio(t)
	events := &eventLog{}
	c := newTestClient(studio, &sizedCompressor{size: 200}, events)

	item, err := c.Upload(t.Context(), Request{Path: writeFile(t, "feature.mp4", 300), Kind: media.KindVideo})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if events.events[1].Transport != TransportProxy {
		t.Fatalf("transport = %q, want proxy", events.events[1].Transport)
	}
	if got := studio.hitList(); !reflect.DeepEqual(got, []string{"proxy", "gallery"}) {
		t.Fatalf("hits = %v", got)
	}
	if studio.proxySizes[0] != 200 {
		t.Fatalf("proxy received %d bytes", studio.proxySizes[0])
	}
	if item.ExternalID != "studio-gallery/proxied" || item.Type != media.KindVideo {
		t.Fatalf("item = %+v", item)
	}
}

func TestUploadSmallPhotoSkipsCompression(t *testing.T) {
	studio := newFakeStudio(t)
	events := &eventLog{}
	comp := &sizedCompressor{size: 1}
	c := newTestClient(studio, comp, events)

	if _, err := c.Upload(t.Context(), Request{Path: writeFile(t, "still.png", 50), Kind: media.KindPhoto}); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if comp.calls != 0 {
		t.Fatalf("photos are never compressed")
	}
	if got := events.kinds(); !reflect.DeepEqual(got, []EventKind{UploadStarted, UploadSucceeded}) {
		t.Fatalf("events = %v", got)
	}
}

func TestUploadCompressionFailureAborts(t *testing.T) {
	studio := newFakeStudio(t)
	events := &eventLog{}
	c := newTestClient(studio, &sizedCompressor{err: errors.New("codec missing")}, events)

	_, err := c.Upload(t.Context(), Request{Path: writeFile(t, "reel.mp4", 150), Kind: media.KindVideo})
	if err == nil || !strings.Contains(err.Error(), "codec missing") {
		t.Fatalf("err = %v", err)
	}
	if got := events.kinds(); !reflect.DeepEqual(got, []EventKind{CompressionStarted, UploadFailed}) {
		t.Fatalf("events = %v", got)
	}
	if hits := studio.hitList(); len(hits) != 0 {
		t.Fatalf("no upload should happen after a compression failure, got %v", hits)
	}
}

func TestUploadSurfacesHostRejectionVerbatim(t *testing.T) {
	studio := newFakeStudio(t)
	studio.hostErr = "Invalid Signature"
	events := &eventLog{}
	c := newTestClient(studio, Passthrough{}, events)

	_, err := c.Upload(t.Context(), Request{Path: writeFile(t, "still.jpg", 10), Kind: media.KindPhoto})
	var hostErr *media.HostError
	if !errors.As(err, &hostErr) || hostErr.Message != "Invalid Signature" {
		t.Fatalf("err = %v, want host error with the host's message", err)
	}
	if got := studio.hitList(); !reflect.DeepEqual(got, []string{"signature", "host"}) {
		t.Fatalf("no gallery record should be created, hits = %v", got)
	}
	last := events.events[len(events.events)-1]
	if last.Kind != UploadFailed || last.Err == nil {
		t.Fatalf("last event = %+v", last)
	}
}

func TestUploadWithoutDirectBackendDoesNotFallBack(t *testing.T) {
	studio := newFakeStudio(t)
	studio.noDirect = true
	c := newTestClient(studio, Passthrough{}, &eventLog{})

	_, err := c.Upload(t.Context(), Request{Path: writeFile(t, "still.jpg", 10), Kind: media.KindPhoto})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("err = %v, want 503 APIError", err)
	}
	if got := studio.hitList(); !reflect.DeepEqual(got, []string{"signature"}) {
		t.Fatalf("small uploads must not be rerouted through the proxy, hits = %v", got)
	}
}

func TestAPIErrorCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"message":"Failed to delete media","error":"host unavailable"}`)
	}))
	defer srv.Close()

	err := New(srv.URL).Delete(t.Context(), "item-1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != 500 || apiErr.Detail != "host unavailable" {
		t.Fatalf("api error = %+v", apiErr)
	}
}
