// Package policy holds the static tables the validation stages consult:
// supported extensions, size caps, the MIME allow-list, suspicious-name and
// dangerous-content patterns, and the LMS signature table.
//
// A Policy is built once at startup and shared read-only by every validation.
package policy

import (
	"fmt"
	"regexp"

	"github.com/schedcheck/internal/domain"
)

// Size units.
const (
	KB int64 = 1024
	MB       = 1024 * KB
)

// Policy is the process-wide read-only configuration of the engine.
type Policy struct {
	// SupportedExtensions lists accepted extensions without the dot, lower-case.
	SupportedExtensions []string

	// SizeLimits caps the declared size per format.
	SizeLimits map[domain.Format]int64

	// FallbackFormat supplies the cap for formats missing from SizeLimits.
	FallbackFormat domain.Format

	// AllowedMIMETypes is the declared-MIME allow-list.
	AllowedMIMETypes []string

	// SuspiciousNamePatterns flag file names that should be renamed.
	SuspiciousNamePatterns []*regexp.Regexp

	// DangerousContentPatterns are tested in order; the first hit wins.
	DangerousContentPatterns []*regexp.Regexp

	// Universities is the LMS signature table. Order is priority.
	Universities []University
}

// University is one LMS signature set.
type University struct {
	Name            string
	SuggestedFormat string
	Signatures      []*regexp.Regexp
}

// Default returns the built-in policy.
func Default() *Policy {
	return &Policy{
		SupportedExtensions: []string{"csv", "pdf", "xlsx", "xls", "ics", "json", "txt"},
		SizeLimits: map[domain.Format]int64{
			domain.FormatCSV:  50 * MB,
			domain.FormatPDF:  100 * MB,
			domain.FormatXLSX: 25 * MB,
			domain.FormatXLS:  25 * MB,
			domain.FormatICS:  10 * MB,
			domain.FormatJSON: 10 * MB,
			domain.FormatTXT:  10 * MB,
		},
		FallbackFormat: domain.FormatTXT,
		AllowedMIMETypes: []string{
			"text/csv",
			"application/pdf",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"application/vnd.ms-excel",
			"text/calendar",
			"application/json",
			"text/plain",
			"application/octet-stream",
		},
		SuspiciousNamePatterns:   defaultSuspiciousNamePatterns(),
		DangerousContentPatterns: defaultDangerousContentPatterns(),
		Universities:             DefaultUniversities(),
	}
}

func defaultSuspiciousNamePatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		// Executable and script suffixes
		regexp.MustCompile(`(?i)\.(exe|bat|cmd|com|scr|pif|vbs|vbe|js|jse|jar|msi|dll|ps1|sh|app)$`),
		// Path separators, reserved and control characters (NUL included)
		regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`),
		// Hidden files
		regexp.MustCompile(`^\.`),
		// Trailing whitespace
		regexp.MustCompile(`\s$`),
	}
}

func defaultDangerousContentPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)<\s*script\b`),
		regexp.MustCompile(`(?i)javascript\s*:`),
		regexp.MustCompile(`(?i)vbscript\s*:`),
		regexp.MustCompile(`(?i)<[^>]*\son[a-z]+\s*=`),
		regexp.MustCompile(`(?i)<\s*iframe\b`),
		regexp.MustCompile(`(?i)<\s*object\b`),
		regexp.MustCompile(`(?i)<\s*embed\b`),
		regexp.MustCompile(`(?i)data:text/html`),
		regexp.MustCompile(`(?i)\b[\w-]+\.(exe|bat|cmd|scr|pif|vbs|ps1|msi)\b`),
	}
}

// IsSupported reports whether ext (lower-case, no dot) is accepted.
func (p *Policy) IsSupported(ext string) bool {
	for _, e := range p.SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// SizeLimit returns the cap for the format, falling back to FallbackFormat.
func (p *Policy) SizeLimit(f domain.Format) int64 {
	if limit, ok := p.SizeLimits[f]; ok {
		return limit
	}
	return p.SizeLimits[p.FallbackFormat]
}

// IsAllowedMIME reports whether the normalised MIME type is on the allow-list.
func (p *Policy) IsAllowedMIME(mimeType string) bool {
	for _, m := range p.AllowedMIMETypes {
		if m == mimeType {
			return true
		}
	}
	return false
}

// Validate checks the policy tables for internal consistency.
func (p *Policy) Validate() error {
	if len(p.SupportedExtensions) == 0 {
		return fmt.Errorf("%w: at least one supported extension is required", domain.ErrInvalidPolicy)
	}
	if _, ok := p.SizeLimits[p.FallbackFormat]; !ok {
		return fmt.Errorf("%w: fallback format %q has no size limit", domain.ErrInvalidPolicy, p.FallbackFormat)
	}
	for f, limit := range p.SizeLimits {
		if limit <= 0 {
			return fmt.Errorf("%w: size limit for %s must be positive", domain.ErrInvalidPolicy, f)
		}
	}
	if len(p.AllowedMIMETypes) == 0 {
		return fmt.Errorf("%w: MIME allow-list is empty", domain.ErrInvalidPolicy)
	}
	if len(p.DangerousContentPatterns) == 0 {
		return fmt.Errorf("%w: no dangerous content patterns", domain.ErrInvalidPolicy)
	}
	seen := make(map[string]bool, len(p.Universities))
	for i, u := range p.Universities {
		if u.Name == "" {
			return fmt.Errorf("%w: university[%d] has no name", domain.ErrInvalidPolicy, i)
		}
		if seen[u.Name] {
			return fmt.Errorf("%w: duplicate university %q", domain.ErrInvalidPolicy, u.Name)
		}
		seen[u.Name] = true
		if len(u.Signatures) == 0 {
			return fmt.Errorf("%w: university %q has no signatures", domain.ErrInvalidPolicy, u.Name)
		}
	}
	return nil
}
