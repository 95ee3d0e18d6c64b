// Package sanitizer turns uploaded bytes into text and masks secrets in the
// lines that are echoed back to callers.
package sanitizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/schedcheck/internal/domain"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Sanitizer handles content decoding and secret masking.
type Sanitizer struct {
	patterns      []*regexp.Regexp
	maxDecodeSize int
}

// Pattern definitions for common secrets and sensitive data.
var defaultPatterns = []*regexp.Regexp{
	// API Keys (generic patterns)
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*['"]?([a-zA-Z0-9_\-]{20,})['"]?`),
	regexp.MustCompile(`(?i)(secret[_-]?key|secretkey)\s*[:=]\s*['"]?([a-zA-Z0-9_\-]{20,})['"]?`),
	regexp.MustCompile(`(?i)(access[_-]?key|accesskey)\s*[:=]\s*['"]?([a-zA-Z0-9_\-]{16,})['"]?`),

	// Authentication tokens
	regexp.MustCompile(`(?i)(bearer\s+)[a-zA-Z0-9_\-\.]+`),
	regexp.MustCompile(`(?i)(token|auth[_-]?token)\s*[:=]\s*['"]?([a-zA-Z0-9_\-\.]{20,})['"]?`),

	// Passwords
	regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*['"]?([^\s'"]{4,})['"]?`),

	// AWS credentials
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),

	// Private keys
	regexp.MustCompile(`-----BEGIN\s+(RSA|DSA|EC|OPENSSH)?\s*PRIVATE KEY-----`),

	// Database connection strings
	regexp.MustCompile(`(?i)(mongodb|mysql|postgres|postgresql|redis):\/\/[^@]+@[^\s]+`),

	// LMS API tokens (Canvas developer keys look like 1234~<64 chars>)
	regexp.MustCompile(`\b\d{3,5}~[A-Za-z0-9]{32,}\b`),

	// JWT tokens
	regexp.MustCompile(`eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`),
}

// New creates a Sanitizer with default patterns. Content longer than
// maxDecodeSize bytes is refused by Decode.
func New(maxDecodeSize int) *Sanitizer {
	return &Sanitizer{
		patterns:      defaultPatterns,
		maxDecodeSize: maxDecodeSize,
	}
}

// NewWithPatterns creates a Sanitizer with custom masking patterns.
func NewWithPatterns(maxDecodeSize int, patterns []*regexp.Regexp) *Sanitizer {
	return &Sanitizer{
		patterns:      patterns,
		maxDecodeSize: maxDecodeSize,
	}
}

// Decode converts raw content to text. A UTF-8 or UTF-16 byte order mark
// selects the encoding; without one the content is read as UTF-8 and
// invalid sequences become U+FFFD.
func (s *Sanitizer) Decode(content []byte) (string, error) {
	if s.maxDecodeSize > 0 && len(content) > s.maxDecodeSize {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", domain.ErrContentTooLarge, len(content), s.maxDecodeSize)
	}
	if len(content) == 0 {
		return "", nil
	}

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}
	return string(out), nil
}

// MaskSecrets replaces sensitive patterns with masked versions.
func (s *Sanitizer) MaskSecrets(line string) string {
	result := line

	for _, pattern := range s.patterns {
		result = pattern.ReplaceAllStringFunc(result, maskValue)
	}

	return result
}

// maskValue creates a masked version of a matched secret.
func maskValue(match string) string {
	if len(match) <= 8 {
		return "[REDACTED]"
	}

	// Keep the key name of key=value pairs
	if idx := strings.IndexAny(match, ":="); idx != -1 {
		return match[:idx+1] + "[REDACTED]"
	}

	if len(match) > 10 {
		return match[:4] + "****" + match[len(match)-4:]
	}

	return "[REDACTED]"
}

// IsEmpty checks if the text is empty or whitespace only.
func (s *Sanitizer) IsEmpty(text string) bool {
	return strings.TrimSpace(text) == ""
}

// Sample returns up to n non-blank lines of text, trimmed and masked.
func (s *Sanitizer) Sample(text string, n int) []string {
	sample := make([]string, 0, n)
	for _, line := range strings.Split(text, "\n") {
		if len(sample) == n {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sample = append(sample, s.MaskSecrets(line))
	}
	return sample
}
