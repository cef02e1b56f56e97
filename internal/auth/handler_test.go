package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allow, s.err
}

func newTestHandler(limiter Limiter) *Handler {
	svc := NewService(Admin{Email: "owner@studio.test", Password: "hunter22"}, NewTokens("test-secret", 2*time.Hour))
	return NewHandler(svc, true, limiter)
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	h := newTestHandler(nil)
	req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(`{"email":"owner@studio.test","password":"hunter22"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	c := sessionCookieFrom(t, rec)
	if c.Value == "" || c.Value != body.Token {
		t.Fatalf("cookie value should equal the returned token")
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteStrictMode || c.Path != "/" {
		t.Fatalf("unexpected cookie attributes: %+v", c)
	}
	if c.MaxAge != 7200 {
		t.Fatalf("max age = %d, want 7200", c.MaxAge)
	}
}

func TestLoginErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "bad json", body: `{`, want: http.StatusBadRequest},
		{name: "missing password", body: `{"email":"owner@studio.test"}`, want: http.StatusBadRequest},
		{name: "wrong password", body: `{"email":"owner@studio.test","password":"nope"}`, want: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestHandler(nil).Login(rec, httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(tc.body)))
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			for _, c := range rec.Result().Cookies() {
				if c.Name == CookieName {
					t.Fatalf("failed login must not set a cookie")
				}
			}
		})
	}
}

func TestLoginRateLimited(t *testing.T) {
	tests := []struct {
		name    string
		limiter *stubLimiter
	}{
		{name: "over limit", limiter: &stubLimiter{allow: false}},
		{name: "limiter error fails closed", limiter: &stubLimiter{allow: false, err: errors.New("redis down")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(`{"email":"owner@studio.test","password":"hunter22"}`))
			req.RemoteAddr = "203.0.113.7:5555"
			rec := httptest.NewRecorder()
			newTestHandler(tc.limiter).Login(rec, req)
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("status = %d, want 429", rec.Code)
			}
			if len(tc.limiter.keys) != 1 || tc.limiter.keys[0] != "login:203.0.113.7" {
				t.Fatalf("limiter keys = %v", tc.limiter.keys)
			}
		})
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(nil).Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	header := rec.Header().Get("Set-Cookie")
	if !strings.Contains(header, CookieName+"=;") || !strings.Contains(header, "Max-Age=0") {
		t.Fatalf("set-cookie = %q", header)
	}
}
