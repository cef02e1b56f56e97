package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestErrorDetailCarriesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	Upstream(rec, "Upload failed", errors.New("Invalid Signature"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Upload failed" || body.Error != "Invalid Signature" {
		t.Fatalf("body = %+v", body)
	}
}

func TestErrorOmitsEmptyCause(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "Item not found")

	var raw map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["error"]; ok {
		t.Fatalf("error field should be omitted: %v", raw)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec)
	if got := rec.Body.String(); got != "{\"success\":true}\n" {
		t.Fatalf("body = %q", got)
	}
}
