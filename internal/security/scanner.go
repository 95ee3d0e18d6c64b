// Package security screens decoded content for markup and script injection
// and for encoding anomalies. It is a pattern-based heuristic, not a virus
// scanner.
package security

import (
	"unicode/utf8"

	"github.com/schedcheck/internal/domain"
	"github.com/schedcheck/internal/policy"
	"go.uber.org/zap"
)

const (
	// SpecialCharThreshold is the ratio above which text is flagged as
	// unusually encoded.
	SpecialCharThreshold = 0.10

	// BinaryThreshold is the ratio of control or high-byte characters above
	// which a text-native file is flagged as containing binary data.
	BinaryThreshold = 0.01
)

// Result is the scanner's contribution to the report.
type Result struct {
	domain.Findings

	// Flags holds each raised flag once, in the order raised.
	Flags []domain.SecurityFlag
}

func (r *Result) raise(flag domain.SecurityFlag) {
	for _, f := range r.Flags {
		if f == flag {
			return
		}
	}
	r.Flags = append(r.Flags, flag)
}

// Scanner runs the security heuristics.
type Scanner struct {
	policy *policy.Policy
	logger *zap.Logger
}

// NewScanner creates a Scanner bound to the given policy.
func NewScanner(p *policy.Policy, logger *zap.Logger) *Scanner {
	return &Scanner{
		policy: p,
		logger: logger.Named("security"),
	}
}

// Scan inspects text. decodeErr is the error returned while decoding the
// content, if any; a failed decode is reported as a warning and the scan
// is skipped.
func (s *Scanner) Scan(text string, decodeErr error, format domain.Format) Result {
	var r Result

	if decodeErr != nil {
		s.logger.Debug("content could not be decoded, skipping scan", zap.Error(decodeErr))
		r.ScanFailed(decodeErr)
		return r
	}

	if pattern := s.firstDangerousPattern(text); pattern != "" {
		s.logger.Debug("dangerous content", zap.String("pattern", pattern))
		r.AddError(domain.ValidationError{
			Code:       domain.CodeMaliciousContent,
			Message:    "File contains script or markup that is not allowed in a schedule",
			Severity:   domain.SeverityCritical,
			Suggestion: "Re-export the schedule from its source system without embedded markup",
		})
		r.raise(domain.FlagMaliciousContent)
	}

	if SpecialCharRatio(text) > SpecialCharThreshold {
		r.AddWarning(domain.ValidationWarning{
			Code:       domain.CodeHighSpecialCharRatio,
			Message:    "File contains an unusually high share of special characters",
			Impact:     domain.ImpactModerate,
			Suggestion: "Check the file encoding; export as UTF-8 if possible",
		})
		r.raise(domain.FlagUnusualEncoding)
	}

	if format.IsTextNative() && BinaryRatio(text) > BinaryThreshold {
		r.AddWarning(domain.ValidationWarning{
			Code:       domain.CodeBinaryInTextFile,
			Message:    "Text file contains binary data",
			Impact:     domain.ImpactModerate,
			Suggestion: "Make sure the file was exported as plain text",
		})
		r.raise(domain.FlagBinaryContent)
	}

	return r
}

// ScanFailed records that the scan could not complete.
func (r *Result) ScanFailed(err error) {
	r.AddWarning(domain.ValidationWarning{
		Code:       domain.CodeSecurityScanFailed,
		Message:    "Security scan could not be completed: " + err.Error(),
		Impact:     domain.ImpactModerate,
		Suggestion: "Save the file as UTF-8 text and upload it again",
	})
	r.raise(domain.FlagScanFailed)
}

// firstDangerousPattern returns the source of the first matching pattern.
// Patterns are tested in policy order and the scan stops at the first hit.
func (s *Scanner) firstDangerousPattern(text string) string {
	for _, re := range s.policy.DangerousContentPatterns {
		if re.MatchString(text) {
			return re.String()
		}
	}
	return ""
}

// SpecialCharRatio returns the share of runes outside letters, digits,
// underscore, whitespace and common punctuation.
func SpecialCharRatio(text string) float64 {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return 0
	}

	special := 0
	for _, r := range text {
		if !isPlainRune(r) {
			special++
		}
	}
	return float64(special) / float64(total)
}

func isPlainRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return true
	case r == ' ', r == '\t', r == '\n', r == '\r', r == '\v', r == '\f':
		return true
	}
	switch r {
	case '-', '.', ',', ';', ':', '!', '?', '(', ')':
		return true
	}
	return false
}

// BinaryRatio returns the share of runes that are C0 controls other than
// whitespace, DEL, Latin-1 high bytes, or the replacement character left
// behind by invalid byte sequences.
func BinaryRatio(text string) float64 {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return 0
	}

	binary := 0
	for _, r := range text {
		if isBinaryRune(r) {
			binary++
		}
	}
	return float64(binary) / float64(total)
}

func isBinaryRune(r rune) bool {
	switch {
	case r <= 0x08:
		return true
	case r >= 0x0E && r <= 0x1F:
		return true
	case r >= 0x7F && r <= 0xFF:
		return true
	case r == utf8.RuneError:
		return true
	}
	return false
}
