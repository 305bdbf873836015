// ABOUTME: Anonymous per-browser visitor identity via cookie
// ABOUTME: Issues, validates, and renews the visitor id keying all widget state

package webembed

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

// VisitorCookieName identifies the anonymous visitor across mounts
const VisitorCookieName = "ember_visitor_id"

type contextKey int

const visitorIDKey contextKey = iota

var visitorIDPattern = regexp.MustCompile(`^v_[a-f0-9]{32}$`)

// VisitorIDFromContext extracts the visitor id from the request context
func VisitorIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(visitorIDKey).(string); ok {
		return v
	}
	return ""
}

func generateVisitorID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate visitor id: %w", err)
	}
	return "v_" + hex.EncodeToString(buf), nil
}

func isValidVisitorID(id string) bool {
	return visitorIDPattern.MatchString(id)
}

// setVisitorCookie writes the visitor cookie. The widget lives in a
// third-party iframe, so the cookie must be SameSite=None to survive
// cross-site embedding; browsers require Secure for that, so plain-HTTP
// deployments fall back to Lax (same-site testing still works).
func (s *Server) setVisitorCookie(w http.ResponseWriter, id string) {
	sameSite := http.SameSiteLaxMode
	if s.secureCookies {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.cfg.Widget.CookieTTL.Seconds()),
		Expires:  time.Now().Add(s.cfg.Widget.CookieTTL),
		HttpOnly: true,
		SameSite: sameSite,
		Secure:   s.secureCookies,
	})
}

// getOrCreateVisitorID reads a valid visitor cookie or mints a new id.
// Existing cookies are re-set to slide the expiry window.
func (s *Server) getOrCreateVisitorID(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(VisitorCookieName); err == nil && isValidVisitorID(c.Value) {
		s.setVisitorCookie(w, c.Value)
		return c.Value, nil
	}

	id, err := generateVisitorID()
	if err != nil {
		return "", err
	}
	s.setVisitorCookie(w, id)
	return id, nil
}

// visitorMiddleware injects the anonymous visitor id into the request context
func (s *Server) visitorMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			visitorID, err := s.getOrCreateVisitorID(w, r)
			if err != nil {
				s.logger.Error("failed to establish visitor identity", "error", err)
				http.Error(w, "failed to establish visitor identity", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), visitorIDKey, visitorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
