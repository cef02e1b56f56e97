package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/akanis/studio/internal/response"
)

// CookieName is the session cookie carrying the operator token.
const CookieName = "auth_token"

// Limiter throttles login attempts per key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Handler holds HTTP handlers for auth endpoints.
type Handler struct {
	svc          *Service
	secureCookie bool
	limiter      Limiter
}

// NewHandler creates a new auth Handler. limiter may be nil.
func NewHandler(svc *Service, secureCookie bool, limiter Limiter) *Handler {
	return &Handler{svc: svc, secureCookie: secureCookie, limiter: limiter}
}

type loginRequest struct {
	Email    string `json:"email"    example:"owner@akanis.studio"`
	Password string `json:"password" example:"s3cret"`
}

type loginResponse struct {
	Message string `json:"message" example:"Login successful"`
	Token   string `json:"token"   example:"eyJhbGci..."`
}

// Login godoc
//
//	@Summary		Operator login
//	@Description	Check the admin credentials and set the auth_token session cookie (2h, HttpOnly, SameSite=Strict).
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	loginResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		401		{object}	response.ErrorBody
//	@Failure		429		{object}	response.ErrorBody
//	@Router			/auth [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil {
		ok, err := h.limiter.Allow(r.Context(), "login:"+clientIP(r))
		if err != nil {
			log.Printf("auth: login limiter: %v", err)
		}
		if !ok {
			response.TooManyRequests(w, "too many login attempts, try again later")
			return
		}
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	session, err := h.svc.Login(req.Email, req.Password)
	switch {
	case errors.Is(err, ErrMissingCredentials):
		response.BadRequest(w, "Email and password are required")
		return
	case errors.Is(err, ErrInvalidCredentials):
		response.Unauthorized(w, "Invalid credentials")
		return
	case errors.Is(err, ErrNotConfigured):
		log.Printf("auth: login attempted but no admin identity is configured")
		response.Unauthorized(w, "Invalid credentials")
		return
	case err != nil:
		log.Printf("auth: login: %v", err)
		response.InternalError(w)
		return
	}

	http.SetCookie(w, h.sessionCookie(session.Token, h.svc.Tokens().TTL()))
	response.OK(w, loginResponse{Message: "Login successful", Token: session.Token})
}

// Logout godoc
//
//	@Summary		Operator logout
//	@Description	Expire the session cookie immediately. Tokens are stateless, so a copied token stays valid until it expires.
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	response.MessageBody
//	@Router			/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", 0))
	response.OK(w, response.MessageBody{Message: "Logged out"})
}

func (h *Handler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
		c.Expires = time.Now().Add(ttl)
	} else {
		// MaxAge<0 renders as "Max-Age=0"
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	}
	return c
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
