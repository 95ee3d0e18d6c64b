// Package intake validates the metadata of an upload (name, extension,
// declared size and MIME type) against the policy tables. It never looks at
// the content beyond its length.
package intake

import (
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/schedcheck/internal/domain"
	"github.com/schedcheck/internal/policy"
	"go.uber.org/zap"
)

// Gate runs the intake checks.
type Gate struct {
	policy *policy.Policy
	logger *zap.Logger
}

// NewGate creates a Gate bound to the given policy.
func NewGate(p *policy.Policy, logger *zap.Logger) *Gate {
	return &Gate{
		policy: p,
		logger: logger.Named("intake"),
	}
}

// Extension returns the lower-case extension of name without the dot,
// or "" when the name has none.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(strings.TrimSpace(name)), "."))
}

// NormalizeMIME lower-cases a MIME type and strips its parameters.
func NormalizeMIME(mimeType string) string {
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mediaType
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// Check runs every intake check. Checks do not short-circuit; all
// applicable findings are returned.
func (g *Gate) Check(in *domain.FileInput) domain.Findings {
	var f domain.Findings

	ext := Extension(in.Name)
	format := domain.FormatFromExtension(ext)

	if strings.TrimSpace(in.Name) == "" {
		f.AddError(domain.ValidationError{
			Code:       domain.CodeInvalidFilename,
			Message:    "File name is missing",
			Severity:   domain.SeverityHigh,
			Field:      "fileName",
			Suggestion: "Upload the file with its original name and extension",
		})
	}

	if !g.policy.IsSupported(ext) {
		f.AddError(domain.ValidationError{
			Code:       domain.CodeUnsupportedFileType,
			Message:    fmt.Sprintf("File type %q is not supported", displayExt(ext)),
			Severity:   domain.SeverityCritical,
			Field:      "fileType",
			Suggestion: "Export the schedule as " + strings.Join(g.policy.SupportedExtensions, ", "),
		})
	}

	if limit := g.policy.SizeLimit(format); in.SizeBytes > uint64(limit) {
		f.AddError(domain.ValidationError{
			Code:       domain.CodeFileTooLarge,
			Message:    fmt.Sprintf("File is %s; the limit for %s files is %s", HumanSize(in.SizeBytes), displayExt(ext), HumanSize(uint64(limit))),
			Severity:   domain.SeverityHigh,
			Field:      "fileSize",
			Suggestion: "Export a single term or split the file",
		})
	}

	if in.SizeBytes == 0 || len(in.Content) == 0 {
		f.AddError(domain.ValidationError{
			Code:       domain.CodeEmptyFile,
			Message:    "File is empty",
			Severity:   domain.SeverityCritical,
			Field:      "fileSize",
			Suggestion: "Check that the export finished before uploading",
		})
	}

	if declared := NormalizeMIME(in.DeclaredMIMEType); !g.policy.IsAllowedMIME(declared) {
		f.AddWarning(domain.ValidationWarning{
			Code:       domain.CodeUnexpectedMIMEType,
			Message:    fmt.Sprintf("Unexpected MIME type %q", in.DeclaredMIMEType),
			Impact:     domain.ImpactMinor,
			Suggestion: "The file will be processed by its extension",
		})
	}

	if pattern := g.suspiciousName(in.Name); pattern != "" {
		g.logger.Debug("suspicious file name", zap.String("file_name", in.Name), zap.String("pattern", pattern))
		f.AddError(domain.ValidationError{
			Code:        domain.CodeSuspiciousFilename,
			Message:     "File name contains suspicious characters or suffixes",
			Severity:    domain.SeverityHigh,
			Field:       "fileName",
			Suggestion:  "Rename the file using letters, digits, dashes and a single extension",
			Recoverable: true,
		})
	}

	return f
}

func (g *Gate) suspiciousName(name string) string {
	for _, re := range g.policy.SuspiciousNamePatterns {
		if re.MatchString(name) {
			return re.String()
		}
	}
	return ""
}

func displayExt(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return "." + ext
}

// HumanSize formats a byte count with binary units.
func HumanSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
