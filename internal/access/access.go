// Package access classifies request paths and decides whether a request is
// allowed, sent to the login page, or sent to the dashboard.
package access

import (
	"net/url"
	"strings"
)

// RouteClass is the classification of a request path.
type RouteClass int

const (
	// Unclassified paths are public.
	Unclassified RouteClass = iota
	// BackendProtected paths require a session.
	BackendProtected
	// AuthOnly paths are meant for visitors without a session.
	AuthOnly
)

// String returns the name of the class.
func (c RouteClass) String() string {
	switch c {
	case BackendProtected:
		return "backend-protected"
	case AuthOnly:
		return "auth-only"
	default:
		return "unclassified"
	}
}

// Table is the static route configuration consumed by the guard.
type Table struct {
	ProtectedPrefixes []string
	AuthOnlyExact     []string
	AuthOnlyPrefixes  []string
	LoginPath         string
	DashboardPath     string
	ReturnToParam     string
}

// DefaultTable returns the back-office route table.
func DefaultTable() Table {
	return Table{
		ProtectedPrefixes: []string{"/dashboard", "/settings", "/users", "/proprietes-area"},
		AuthOnlyExact:     []string{"/login", "/forgot-password"},
		AuthOnlyPrefixes:  []string{"/reset-password"},
		LoginPath:         "/login",
		DashboardPath:     "/dashboard",
		ReturnToParam:     "returnTo",
	}
}

// Classify returns the class of path. Protected prefixes are checked first.
func (t Table) Classify(path string) RouteClass {
	path = normalize(path)
	for _, prefix := range t.ProtectedPrefixes {
		if hasPathPrefix(path, prefix) {
			return BackendProtected
		}
	}
	for _, exact := range t.AuthOnlyExact {
		if path == normalize(exact) {
			return AuthOnly
		}
	}
	for _, prefix := range t.AuthOnlyPrefixes {
		if hasPathPrefix(path, prefix) {
			return AuthOnly
		}
	}
	return Unclassified
}

// LoginURL returns the login redirect target carrying path as the return-to parameter.
func (t Table) LoginURL(path string) string {
	param := t.ReturnToParam
	if param == "" {
		param = "returnTo"
	}
	return t.LoginPath + "?" + url.Values{param: {path}}.Encode()
}

// normalize strips trailing slashes, keeping the root path.
func normalize(path string) string {
	if path == "" {
		return "/"
	}
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

// hasPathPrefix reports whether path equals prefix or continues it with a "/".
func hasPathPrefix(path, prefix string) bool {
	prefix = normalize(prefix)
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
