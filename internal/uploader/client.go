// Package uploader is the client side of media uploads. It validates a file, compresses large
// videos, picks the direct or proxy transport by size and records the result in the gallery.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/akanis/studio/internal/contact"
	"github.com/akanis/studio/internal/gallery"
	"github.com/akanis/studio/internal/media"
)

// APIError is an error response from the studio API.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Client talks to the studio API and, for direct uploads, to the media host.
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     media.Policy
	compressor Compressor
	observer   Observer
	// threshold is the size above which videos are compressed and files are proxied
	threshold int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client. A cookie jar is added when it has none.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

// WithCompressor sets the video compressor.
func WithCompressor(comp Compressor) Option { return func(c *Client) { c.compressor = comp } }

// WithObserver sets the event observer.
func WithObserver(o Observer) Option { return func(c *Client) { c.observer = o } }

// WithPolicy overrides the upload policy.
func WithPolicy(p media.Policy) Option { return func(c *Client) { c.policy = p } }

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		policy:     media.DefaultPolicy,
		compressor: Passthrough{},
		observer:   nopObserver{},
		threshold:  media.ProxyThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		// no timeout: uploads of hundreds of MB are bounded by ctx instead
		c.httpClient = &http.Client{}
	}
	if c.httpClient.Jar == nil {
		jar, _ := cookiejar.New(nil)
		hc := *c.httpClient
		hc.Jar = jar
		c.httpClient = &hc
	}
	return c
}

// Login starts an operator session; the cookie is kept for later calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.postJSON(ctx, "/api/auth", map[string]string{"email": email, "password": password}, nil)
}

// Request describes one file to publish.
type Request struct {
	Path     string
	MimeType string // optional; detected from the extension when empty
	Kind     media.Kind
	Title    string
	Tags     []string
}

// Upload validates, optionally compresses, and uploads the file, then creates its gallery record.
// Validation failures return before any network call.
func (c *Client) Upload(ctx context.Context, req Request) (*gallery.Item, error) {
	name := filepath.Base(req.Path)
	info, err := os.Stat(req.Path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	kind, err := media.ParseKind(string(req.Kind))
	if err != nil {
		return nil, err
	}
	req.Kind = kind
	mimeType := media.DetectMime(req.MimeType, req.Path)
	if err := c.policy.Check(req.Kind, mimeType, info.Size()); err != nil {
		return nil, err
	}

	item, err := c.upload(ctx, req, name, mimeType, info.Size())
	if err != nil {
		c.observer.OnEvent(Event{Kind: UploadFailed, File: name, Size: info.Size(), Err: err})
		return nil, err
	}
	return item, nil
}

func (c *Client) upload(ctx context.Context, req Request, name, mimeType string, size int64) (*gallery.Item, error) {
	path := req.Path
	if req.Kind == media.KindVideo && size > c.threshold {
		c.observer.OnEvent(Event{Kind: CompressionStarted, File: name, Size: size})
		out, cleanup, err := c.compressor.Compress(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("compress %s: %w", name, err)
		}
		defer cleanup()
		if out != path {
			info, err := os.Stat(out)
			if err != nil {
				return nil, fmt.Errorf("stat compressed %s: %w", name, err)
			}
			path, size = out, info.Size()
			mimeType = media.DetectMime("", out)
		}
	}

	transport := TransportDirect
	if size > c.threshold {
		transport = TransportProxy
	}
	c.observer.OnEvent(Event{Kind: UploadStarted, File: name, Size: size, Transport: transport})

	file := localFile{path: path, name: name, mimeType: mimeType}
	var (
		asset *media.Asset
		err   error
	)
	if transport == TransportProxy {
		asset, err = c.proxyUpload(ctx, file, req.Kind)
	} else {
		asset, err = c.directUpload(ctx, file, req.Kind)
	}
	if err != nil {
		return nil, err
	}
	if !asset.Resolvable() {
		return nil, fmt.Errorf("upload of %s returned no public_id or secure_url", name)
	}

	item, err := c.CreateItem(ctx, CreateItem{
		Title:    req.Title,
		Tags:     req.Tags,
		Type:     string(req.Kind),
		URL:      asset.SecureURL,
		PublicID: asset.PublicID,
	})
	if err != nil {
		return nil, err
	}
	c.observer.OnEvent(Event{Kind: UploadSucceeded, File: name, Size: size, Transport: transport, Item: item})
	return item, nil
}

type localFile struct {
	path, name, mimeType string
}

type signatureResponse struct {
	Timestamp    int64  `json:"timestamp"`
	Signature    string `json:"signature"`
	CloudName    string `json:"cloudName"`
	APIKey       string `json:"apiKey"`
	ResourceType string `json:"resourceType"`
	Folder       string `json:"folder"`
	UploadURL    string `json:"uploadUrl"`
}

func (c *Client) directUpload(ctx context.Context, f localFile, kind media.Kind) (*media.Asset, error) {
	var sig signatureResponse
	if err := c.postJSON(ctx, "/api/cloudinary-signature", map[string]string{"resourceType": kind.ResourceType()}, &sig); err != nil {
		return nil, fmt.Errorf("get upload signature: %w", err)
	}
	uploadURL := sig.UploadURL
	if uploadURL == "" {
		uploadURL = "https://api.cloudinary.com/v1_1/" + url.PathEscape(sig.CloudName) + "/" + sig.ResourceType + "/upload"
	}
	fields := map[string]string{
		"api_key":   sig.APIKey,
		"timestamp": strconv.FormatInt(sig.Timestamp, 10),
		"signature": sig.Signature,
	}
	if sig.Folder != "" {
		fields["folder"] = sig.Folder
	}

	resp, err := c.postMultipart(ctx, uploadURL, fields, f)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, media.DecodeHostError(resp)
	}
	var asset media.Asset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return nil, fmt.Errorf("decode host response: %w", err)
	}
	return &asset, nil
}

func (c *Client) proxyUpload(ctx context.Context, f localFile, kind media.Kind) (*media.Asset, error) {
	resp, err := c.postMultipart(ctx, c.baseURL+"/api/upload/proxy", map[string]string{"resource_type": kind.ResourceType()}, f)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var asset media.Asset
	if err := decodeResponse(resp, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// postMultipart streams fields and the file as a multipart body without buffering the file.
func (c *Client) postMultipart(ctx context.Context, target string, fields map[string]string, f localFile) (*http.Response, error) {
	src, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.name, err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		defer src.Close()
		pw.CloseWithError(writeMultipart(mw, fields, f, src))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		return nil, err
	}
	return resp, nil
}

func writeMultipart(mw *multipart.Writer, fields map[string]string, f localFile, src io.Reader) error {
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.name))
	h.Set("Content-Type", f.mimeType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, src); err != nil {
		return err
	}
	return mw.Close()
}

// CreateItem is the JSON body of a gallery create.
type CreateItem struct {
	Title    string   `json:"title,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Type     string   `json:"type"`
	URL      string   `json:"url"`
	PublicID string   `json:"publicId"`
}

// CreateItem records an already uploaded asset in the gallery.
func (c *Client) CreateItem(ctx context.Context, in CreateItem) (*gallery.Item, error) {
	var item gallery.Item
	if err := c.postJSON(ctx, "/api/gallery", in, &item); err != nil {
		return nil, fmt.Errorf("create gallery record: %w", err)
	}
	return &item, nil
}

// Delete removes a gallery item and its asset.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/gallery?id="+url.QueryEscape(id), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Leads lists contact leads newest first.
func (c *Client) Leads(ctx context.Context) ([]contact.Lead, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/contact", nil)
	if err != nil {
		return nil, err
	}
	var leads []contact.Lead
	if err := c.do(req, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&errResp)
		msg := errResp.Message
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: msg, Detail: errResp.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
