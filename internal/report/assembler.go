// Package report folds the stage outputs into one ValidationResult and
// derives the security score and recommendations.
package report

import (
	"fmt"
	"strings"

	"github.com/schedcheck/internal/content"
	"github.com/schedcheck/internal/domain"
	"github.com/schedcheck/internal/policy"
)

// RecommendTrimAbove is the file size above which trimming is suggested.
const RecommendTrimAbove = 10 * 1024 * 1024

var errorPenalty = map[domain.Severity]int{
	domain.SeverityCritical: 50,
	domain.SeverityHigh:     25,
	domain.SeverityMedium:   10,
	domain.SeverityLow:      5,
}

var warningPenalty = map[domain.Impact]int{
	domain.ImpactSignificant: 15,
	domain.ImpactModerate:    10,
	domain.ImpactMinor:       5,
}

// FlagPenalty is deducted once per distinct security flag.
const FlagPenalty = 10

// Input is everything the assembler folds together.
type Input struct {
	Findings domain.Findings
	Flags    []domain.SecurityFlag
	Metadata domain.FileMetadata
}

// Assembler builds the final report.
type Assembler struct {
	policy *policy.Policy
}

// NewAssembler creates an Assembler.
func NewAssembler(p *policy.Policy) *Assembler {
	return &Assembler{policy: p}
}

// Assemble builds the ValidationResult. It does not modify in.
func (a *Assembler) Assemble(in Input) *domain.ValidationResult {
	errs := append([]domain.ValidationError{}, in.Findings.Errors...)
	warnings := append([]domain.ValidationWarning{}, in.Findings.Warnings...)

	result := &domain.ValidationResult{
		IsValid:  IsValid(errs),
		Errors:   errs,
		Warnings: warnings,
		Metadata: in.Metadata,
	}
	result.SecurityScore = Score(errs, warnings, in.Flags)
	result.Recommendations = a.Recommendations(result)
	return result
}

// IsValid reports whether no error blocks the import.
func IsValid(errs []domain.ValidationError) bool {
	for _, e := range errs {
		if e.Severity.Blocking() {
			return false
		}
	}
	return true
}

// Score computes the advisory security score in [0, 100].
func Score(errs []domain.ValidationError, warnings []domain.ValidationWarning, flags []domain.SecurityFlag) int {
	score := 100
	for _, e := range errs {
		score -= errorPenalty[e.Severity]
	}
	for _, w := range warnings {
		score -= warningPenalty[w.Impact]
	}

	seen := make(map[domain.SecurityFlag]bool, len(flags))
	for _, f := range flags {
		if !seen[f] {
			seen[f] = true
			score -= FlagPenalty
		}
	}

	if score < 0 {
		return 0
	}
	return score
}

// Recommendations derives advice from the assembled result.
func (a *Assembler) Recommendations(r *domain.ValidationResult) []string {
	recs := []string{}
	ca := r.Metadata.Content

	if !ca.IsEmpty && ca.Confidence < content.LowConfidenceThreshold {
		recs = append(recs, "This file does not look like a class schedule. Try exporting a CSV or iCalendar (.ics) file from your student portal.")
	}

	if u := r.Metadata.University; u != nil && u.Name != "" {
		rec := fmt.Sprintf("Detected a %s export", u.Name)
		if u.SuggestedFormat != "" {
			rec += fmt.Sprintf("; the %s parser will be used", u.SuggestedFormat)
		}
		recs = append(recs, rec+".")
	}

	if r.Metadata.FileSize > RecommendTrimAbove {
		recs = append(recs, "Large file. Export only the current term to speed up the import.")
	}

	if !ca.IsEmpty {
		var missing []string
		if !ca.HasTimeData {
			missing = append(missing, "meeting times")
		}
		if !ca.HasInstructorData {
			missing = append(missing, "instructor names")
		}
		if len(missing) > 0 {
			recs = append(recs, fmt.Sprintf("The file has no %s. Include them in the source export for a complete schedule.", strings.Join(missing, " or ")))
		}
	}

	if r.HasErrorCode(domain.CodeUnsupportedFileType) {
		recs = append(recs, "Accepted formats: "+strings.Join(a.policy.SupportedExtensions, ", ")+".")
	}

	return recs
}
