// Package session decodes the session cookie written by the login flow.
//
// The cookie is not signed. It only needs to parse and carry a user id for
// coarse route gating; anything else is treated as no session at all.
package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// UserID is an opaque user identifier. It decodes from a JSON string or a JSON number.
type UserID string

// UnmarshalJSON accepts both "42" and 42.
func (u *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*u = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or a number: %w", err)
	}
	*u = UserID(n.String())
	return nil
}

// String returns the identifier as a string.
func (u UserID) String() string {
	return string(u)
}

// Session is the authenticated principal carried by the cookie.
type Session struct {
	UserID UserID `json:"userId"`
	Role   string `json:"role,omitempty"`
}

// Decode parses a raw cookie value. It returns nil for an empty value, a value
// that is not JSON, or a payload without a user id. It never fails.
func Decode(raw string) *Session {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if s := decodeJSON(raw); s != nil {
		return s
	}
	unescaped, err := url.QueryUnescape(raw)
	if err != nil || unescaped == raw {
		return nil
	}
	return decodeJSON(unescaped)
}

func decodeJSON(raw string) *Session {
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil
	}
	if strings.TrimSpace(s.UserID.String()) == "" {
		return nil
	}
	return &s
}

// Encode returns the cookie value for s: URL-escaped JSON.
func Encode(s Session) (string, error) {
	if strings.TrimSpace(s.UserID.String()) == "" {
		return "", fmt.Errorf("session requires a user id")
	}
	payload := map[string]any{"userId": s.UserID.String()}
	// numeric ids round trip as numbers
	if n, err := strconv.ParseInt(s.UserID.String(), 10, 64); err == nil && strconv.FormatInt(n, 10) == s.UserID.String() {
		payload["userId"] = n
	}
	if s.Role != "" {
		payload["role"] = s.Role
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	return url.QueryEscape(string(data)), nil
}

// FromRequest decodes the session cookie of r, or returns nil.
func FromRequest(r *http.Request) *Session {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}
	return Decode(c.Value)
}

// NewCookie builds the session cookie for value.
func NewCookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
