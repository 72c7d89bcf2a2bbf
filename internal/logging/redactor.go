package logging

import (
	"regexp"
	"strings"
)

var segmentSplitter = regexp.MustCompile(`[^a-z0-9]+`)

// redactor redacts sensitive values in log key-value pairs.
type redactor struct {
	sensitiveWords map[string]bool
}

// newRedactor creates a new redactor with the default sensitive words.
// Session cookies carry the user identity, so cookie and session keys are hidden too.
func newRedactor() *redactor {
	words := []string{"secret", "password", "token", "key", "auth", "credential", "cookie", "session"}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return &redactor{sensitiveWords: m}
}

// redact walks through a flattened slice of key-value pairs.
// If a key contains a sensitive word as a separate segment, its value is replaced with "[REDACTED]".
// The original slice is not modified.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	result := make([]any, len(pairs))
	copy(result, pairs)
	for i := 0; i+1 < len(result); i += 2 {
		key, ok := result[i].(string)
		if !ok {
			continue
		}
		if r.isSensitive(key) {
			result[i+1] = "[REDACTED]"
		}
	}
	return result
}

// isSensitive reports whether key contains a sensitive word as a separate segment.
// Segments are split by non-alphanumeric characters (including underscore).
func (r *redactor) isSensitive(key string) bool {
	for _, part := range segmentSplitter.Split(strings.ToLower(key), -1) {
		if r.sensitiveWords[part] {
			return true
		}
	}
	return false
}
