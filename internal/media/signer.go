package media

import (
	"crypto/subtle"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
)

// unsignedParams are sent with an upload but never part of the signature.
var unsignedParams = map[string]bool{
	"file":          true,
	"api_key":       true,
	"cloud_name":    true,
	"resource_type": true,
	"signature":     true,
}

// Signer computes request signatures with the host's API secret. The secret never leaves the server.
type Signer struct {
	secret string
}

// NewSigner returns a Signer for secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: secret}
}

// Sign returns the SDK's SHA-1 request signature over the signable, non-empty params.
// It returns "" when the signer has no secret.
func (s *Signer) Sign(params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		if unsignedParams[k] || v == "" {
			continue
		}
		values.Set(k, v)
	}
	sig, err := api.SignParameters(values, s.secret)
	if err != nil {
		return ""
	}
	return sig
}

// Verify reports whether signature was produced for exactly params.
func (s *Signer) Verify(params map[string]string, signature string) bool {
	want := s.Sign(params)
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(signature))) == 1
}

// UploadSignature is what a client needs to upload directly to the host.
type UploadSignature struct {
	Folder    string
	Timestamp int64
	Signature string
}

// Params returns the signed parameter set.
func (u UploadSignature) Params() map[string]string {
	return UploadParams(u.Folder, u.Timestamp)
}

// UploadParams is the parameter set covered by a direct upload signature: the folder and the
// timestamp only. Anything else a client attaches to the upload is not covered.
func UploadParams(folder string, timestamp int64) map[string]string {
	return map[string]string{
		"folder":    folder,
		"timestamp": strconv.FormatInt(timestamp, 10),
	}
}

// SignUpload signs {folder, timestamp} for a direct upload issued at now.
func (s *Signer) SignUpload(folder string, now time.Time) UploadSignature {
	ts := now.Unix()
	return UploadSignature{
		Folder:    folder,
		Timestamp: ts,
		Signature: s.Sign(UploadParams(folder, ts)),
	}
}
