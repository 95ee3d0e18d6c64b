// Package content classifies decoded text: does it look like a schedule,
// and which schedule fields does it carry.
package content

import (
	"github.com/schedcheck/internal/domain"
	"github.com/schedcheck/pkg/sanitizer"
	"go.uber.org/zap"
)

// LowConfidenceThreshold is the confidence below which a file is reported
// as unlikely to hold a schedule.
const LowConfidenceThreshold = 0.3

// Indicator weights. The remaining 0.1 comes from the detected patterns.
const (
	weightSchedule   = 0.3
	weightCourse     = 0.3
	weightTime       = 0.2
	weightInstructor = 0.1
	weightPatterns   = 0.1
)

// Classifier runs the detectors and indicators over decoded text.
type Classifier struct {
	detectors   []Detector
	sanitizer   *sanitizer.Sanitizer
	sampleLines int
	logger      *zap.Logger
}

// NewClassifier creates a Classifier with the default detectors.
// sampleLines bounds ContentAnalysis.SampleData.
func NewClassifier(s *sanitizer.Sanitizer, sampleLines int, logger *zap.Logger) *Classifier {
	return NewClassifierWithDetectors(DefaultDetectors(), s, sampleLines, logger)
}

// NewClassifierWithDetectors creates a Classifier with custom detectors.
func NewClassifierWithDetectors(detectors []Detector, s *sanitizer.Sanitizer, sampleLines int, logger *zap.Logger) *Classifier {
	return &Classifier{
		detectors:   detectors,
		sanitizer:   s,
		sampleLines: sampleLines,
		logger:      logger.Named("content"),
	}
}

// Analyze classifies text. decodeErr is the error returned while decoding
// the content, if any. Panics inside a detector are reported as a warning.
func (c *Classifier) Analyze(text string, decodeErr error) (a domain.ContentAnalysis, f domain.Findings) {
	defer func() {
		if r := recover(); r != nil {
			err := domain.RecoveredError("content", r)
			c.logger.Warn("content analysis panicked", zap.Error(err))
			a, f = Failed(err)
		}
	}()

	if decodeErr != nil {
		return Failed(decodeErr)
	}

	a = domain.ContentAnalysis{
		Patterns:   []domain.DetectedPattern{},
		SampleData: []string{},
	}
	if c.sanitizer.IsEmpty(text) {
		a.IsEmpty = true
		return a, f
	}

	for _, detect := range c.detectors {
		if p := detect(text); p != nil {
			a.Patterns = append(a.Patterns, *p)
		}
	}

	a.HasScheduleData = HasScheduleData(text)
	a.HasCourseData = HasCourseData(text)
	a.HasTimeData = HasTimeData(text)
	a.HasInstructorData = HasInstructorData(text)
	a.Confidence = Confidence(a)
	a.SampleData = c.sanitizer.Sample(text, c.sampleLines)

	c.logger.Debug("content classified",
		zap.Float64("confidence", a.Confidence),
		zap.Int("patterns", len(a.Patterns)),
	)

	if a.Confidence < LowConfidenceThreshold {
		f.AddWarning(domain.ValidationWarning{
			Code:       domain.CodeLowConfidenceSchedule,
			Message:    "File does not look like a class schedule",
			Impact:     domain.ImpactSignificant,
			Suggestion: "Export the schedule as CSV or iCalendar from your student portal",
		})
	}
	if a.HasScheduleData && !a.HasTimeData {
		f.AddWarning(domain.ValidationWarning{
			Code:       domain.CodeMissingTimeData,
			Message:    "Schedule has no meeting times",
			Impact:     domain.ImpactModerate,
			Suggestion: "Include start and end times in the export",
		})
	}

	return a, f
}

// Confidence combines the indicators with the mean detector confidence.
func Confidence(a domain.ContentAnalysis) float64 {
	score := 0.0
	if a.HasScheduleData {
		score += weightSchedule
	}
	if a.HasCourseData {
		score += weightCourse
	}
	if a.HasTimeData {
		score += weightTime
	}
	if a.HasInstructorData {
		score += weightInstructor
	}

	if len(a.Patterns) > 0 {
		sum := 0.0
		for _, p := range a.Patterns {
			sum += p.Confidence
		}
		score += weightPatterns * sum / float64(len(a.Patterns))
	}

	if score > 1 {
		return 1
	}
	return score
}

// Failed is the analysis reported when classification cannot run.
func Failed(err error) (domain.ContentAnalysis, domain.Findings) {
	var f domain.Findings
	f.AddWarning(domain.ValidationWarning{
		Code:       domain.CodeContentAnalysisFailed,
		Message:    "Content analysis could not be completed: " + err.Error(),
		Impact:     domain.ImpactModerate,
		Suggestion: "Save the file as UTF-8 text and upload it again",
	})
	return domain.ContentAnalysis{
		Patterns:   []domain.DetectedPattern{},
		SampleData: []string{},
	}, f
}
