// Package security holds the relay's credential checks and the log
// redaction that keeps API keys and the upstream token out of log output.
package security

import (
	"regexp"
	"strings"
	"sync"
)

// RedactPlaceholder is the replacement string for redacted secrets.
const RedactPlaceholder = "***REDACTED***"

// MinLiteralLength is the shortest literal secret AddLiteral accepts.
// Shorter values would match unrelated substrings of ordinary log text.
const MinLiteralLength = 8

// Redactor replaces secret values in strings with RedactPlaceholder.
// It matches known API key formats by pattern and configured credentials
// by literal value. All methods are safe for concurrent use.
type Redactor struct {
	mu       sync.RWMutex
	patterns []*regexp.Regexp
	literals []string
}

// NewRedactor creates a Redactor pre-loaded with DefaultPatterns and the
// given literal secrets. Literals AddLiteral rejects are skipped.
func NewRedactor(literals ...string) *Redactor {
	r := &Redactor{patterns: DefaultPatterns()}
	for _, l := range literals {
		r.AddLiteral(l)
	}
	return r
}

// AddLiteral adds a literal secret value that should be redacted on sight.
// It reports false, and ignores the value, when secret is shorter than
// MinLiteralLength.
func (r *Redactor) AddLiteral(secret string) bool {
	if len(secret) < MinLiteralLength {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.literals = append(r.literals, secret)
	// Longest first, so a key that contains another key is replaced whole.
	for i := len(r.literals) - 1; i > 0 && len(r.literals[i]) > len(r.literals[i-1]); i-- {
		r.literals[i], r.literals[i-1] = r.literals[i-1], r.literals[i]
	}
	return true
}

// Redact replaces every known secret in s.
func (r *Redactor) Redact(s string) string {
	if s == "" {
		return s
	}

	r.mu.RLock()
	patterns := r.patterns
	literals := r.literals
	r.mu.RUnlock()

	for _, lit := range literals {
		if strings.Contains(s, lit) {
			s = strings.ReplaceAll(s, lit, RedactPlaceholder)
		}
	}
	for _, p := range patterns {
		s = p.ReplaceAllString(s, RedactPlaceholder)
	}
	return s
}

// DefaultPatterns returns compiled regex patterns for common API key formats
// and bearer headers.
func DefaultPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		// OpenAI-style and SiliconFlow keys: sk-... (at least 20 chars after prefix)
		regexp.MustCompile(`sk-[a-zA-Z0-9\-_]{20,}`),
		// Authorization header values that slipped into a message.
		regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-_.=]{8,}`),
	}
}
