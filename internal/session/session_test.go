package session

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *Session
	}{
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"not json", "not-json{", nil},
		{"json without user", `{"role":"admin"}`, nil},
		{"blank user", `{"userId":""}`, nil},
		{"null user", `{"userId":null}`, nil},
		{"bool user", `{"userId":true}`, nil},
		{"json array", `[1,2]`, nil},
		{"string user", `{"userId":"u-1"}`, &Session{UserID: "u-1"}},
		{"numeric user", `{"userId":42,"role":"admin"}`, &Session{UserID: "42", Role: "admin"}},
		{"escaped json", url.QueryEscape(`{"userId":7}`), &Session{UserID: "7"}},
		{"escaped garbage", "%7Bnope", nil},
		{"bad escape", "%zz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.raw))
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, s := range []Session{
		{UserID: "42"},
		{UserID: "agent-7", Role: "admin"},
	} {
		raw, err := Encode(s)
		require.NoError(t, err)
		require.NotContains(t, raw, `"`)
		got := Decode(raw)
		require.NotNil(t, got)
		assert.Equal(t, s, *got)
	}
}

func TestEncodeNumericIDAsNumber(t *testing.T) {
	raw, err := Encode(Session{UserID: "42"})
	require.NoError(t, err)
	unescaped, err := url.QueryUnescape(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"userId":42}`, unescaped)
}

func TestEncodeRequiresUser(t *testing.T) {
	_, err := Encode(Session{Role: "admin"})
	require.Error(t, err)
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	assert.Nil(t, FromRequest(r))

	raw, err := Encode(Session{UserID: "9"})
	require.NoError(t, err)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: raw})
	got := FromRequest(r)
	require.NotNil(t, got)
	assert.Equal(t, UserID("9"), got.UserID)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	assert.Nil(t, FromRequest(other))
}

func TestNewCookie(t *testing.T) {
	c := NewCookie("value", 2*time.Hour)
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "value", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 7200, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	require.NoError(t, c.Valid())
}
