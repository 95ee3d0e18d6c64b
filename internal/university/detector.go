// Package university guesses which learning management system exported a
// file by matching its text against per-system signature sets.
package university

import (
	"github.com/schedcheck/internal/domain"
	"github.com/schedcheck/internal/policy"
	"go.uber.org/zap"
)

// Detector matches text against the policy's university table.
type Detector struct {
	universities []policy.University
	logger       *zap.Logger
}

// NewDetector creates a Detector over the given signature table. Table order
// is priority: the first system with any matching signature wins.
func NewDetector(universities []policy.University, logger *zap.Logger) *Detector {
	return &Detector{
		universities: universities,
		logger:       logger.Named("university"),
	}
}

// Detect returns the first system whose signatures match text, or nil.
func (d *Detector) Detect(text string) *domain.UniversityDetection {
	if text == "" {
		return nil
	}

	for _, u := range d.universities {
		if len(u.Signatures) == 0 {
			continue
		}

		var indicators []string
		for _, re := range u.Signatures {
			if re.MatchString(text) {
				indicators = append(indicators, re.String())
			}
		}
		if len(indicators) == 0 {
			continue
		}

		confidence := float64(len(indicators)) / float64(len(u.Signatures))
		d.logger.Debug("university matched",
			zap.String("name", u.Name),
			zap.Float64("confidence", confidence),
		)
		return &domain.UniversityDetection{
			Name:            u.Name,
			Confidence:      confidence,
			Indicators:      indicators,
			SuggestedFormat: u.SuggestedFormat,
		}
	}

	return nil
}
