// Package service contains the validation pipeline.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/schedcheck/internal/content"
	"github.com/schedcheck/internal/domain"
	"github.com/schedcheck/internal/intake"
	"github.com/schedcheck/internal/policy"
	"github.com/schedcheck/internal/report"
	"github.com/schedcheck/internal/security"
	"github.com/schedcheck/internal/structure"
	"github.com/schedcheck/internal/university"
	"github.com/schedcheck/pkg/sanitizer"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stage names used in logs and StageError.
const (
	StageIntake     = "intake"
	StageSecurity   = "security"
	StageStructure  = "structure"
	StageContent    = "content"
	StageUniversity = "university"
)

// Validator orchestrates the validation pipeline.
type Validator struct {
	sanitizer  *sanitizer.Sanitizer
	gate       *intake.Gate
	scanner    *security.Scanner
	parser     *structure.Parser
	classifier *content.Classifier
	detector   *university.Detector
	assembler  *report.Assembler
	parallel   bool
	logger     *zap.Logger
}

// ValidatorConfig contains configuration for the Validator.
type ValidatorConfig struct {
	// Parallel runs the five stages concurrently.
	Parallel bool

	// SampleLines bounds the sample returned in content.sampleData.
	SampleLines int
}

// NewValidator creates a Validator with all stages bound to the policy.
func NewValidator(
	p *policy.Policy,
	s *sanitizer.Sanitizer,
	config ValidatorConfig,
	logger *zap.Logger,
) *Validator {
	return &Validator{
		sanitizer:  s,
		gate:       intake.NewGate(p, logger),
		scanner:    security.NewScanner(p, logger),
		parser:     structure.NewParser(logger),
		classifier: content.NewClassifier(s, config.SampleLines, logger),
		detector:   university.NewDetector(p.Universities, logger),
		assembler:  report.NewAssembler(p),
		parallel:   config.Parallel,
		logger:     logger.Named("validator"),
	}
}

// stageOutputs holds each stage's result until they are merged.
type stageOutputs struct {
	intake     domain.Findings
	security   security.Result
	structure  domain.FileStructure
	structFind domain.Findings
	content    domain.ContentAnalysis
	contFind   domain.Findings
	university *domain.UniversityDetection
}

// Validate runs the pipeline over one file:
// 1. Decode the content once
// 2. Run intake, security, structure, content and university stages
// 3. Merge their findings in stage order and assemble the report
//
// Every validation failure is reported inside the result. The returned
// error is non-nil only when ctx is done, in which case the result must be
// discarded.
func (v *Validator) Validate(ctx context.Context, in *domain.FileInput) (*domain.ValidationResult, error) {
	startTime := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := intake.Extension(in.Name)
	format := domain.FormatFromExtension(ext)

	text, decodeErr := v.sanitizer.Decode(in.Content)
	if decodeErr != nil {
		v.logger.Warn("content could not be decoded",
			zap.String("file_name", in.Name),
			zap.Error(decodeErr),
		)
	}

	var out stageOutputs
	stages := []func(){
		func() { out.intake = v.runIntake(in) },
		func() { out.security = v.runSecurity(text, decodeErr, format) },
		func() { out.structure, out.structFind = v.parser.Probe(format, in.Content, text, decodeErr) },
		func() { out.content, out.contFind = v.classifier.Analyze(text, decodeErr) },
		func() { out.university = v.runUniversity(text) },
	}

	if v.parallel {
		var g errgroup.Group
		for _, stage := range stages {
			g.Go(func() error {
				stage()
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, stage := range stages {
			stage()
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var findings domain.Findings
	findings.Merge(out.intake)
	findings.Merge(out.security.Findings)
	findings.Merge(out.structFind)
	findings.Merge(out.contFind)

	result := v.assembler.Assemble(report.Input{
		Findings: findings,
		Flags:    out.security.Flags,
		Metadata: domain.FileMetadata{
			FileName:         in.Name,
			FileSize:         in.SizeBytes,
			FileType:         format,
			Extension:        ext,
			MimeType:         in.DeclaredMIMEType,
			LastModified:     in.LastModified,
			DetectedMimeType: detectMIME(in.Content),
			ContentHash:      contentHash(in.Content),
			Structure:        out.structure,
			Content:          out.content,
			University:       out.university,
		},
	})

	v.logger.Info("validation completed",
		zap.String("file_name", in.Name),
		zap.String("file_type", string(format)),
		zap.Bool("is_valid", result.IsValid),
		zap.Int("security_score", result.SecurityScore),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return result, nil
}

func (v *Validator) runIntake(in *domain.FileInput) (f domain.Findings) {
	defer func() {
		if r := recover(); r != nil {
			err := domain.RecoveredError(StageIntake, r)
			v.logger.Error("stage panicked", zap.Error(err))
			f = domain.Findings{}
			f.AddError(domain.ValidationError{
				Code:        domain.CodeInvalidFilename,
				Message:     "File metadata could not be validated",
				Severity:    domain.SeverityHigh,
				Field:       "fileName",
				Recoverable: true,
			})
		}
	}()
	return v.gate.Check(in)
}

func (v *Validator) runSecurity(text string, decodeErr error, format domain.Format) (r security.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			err := domain.RecoveredError(StageSecurity, rec)
			v.logger.Error("stage panicked", zap.Error(err))
			r = security.Result{}
			r.ScanFailed(err)
		}
	}()
	return v.scanner.Scan(text, decodeErr, format)
}

func (v *Validator) runUniversity(text string) (d *domain.UniversityDetection) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("stage panicked", zap.Error(domain.RecoveredError(StageUniversity, r)))
			d = nil
		}
	}()
	return v.detector.Detect(text)
}

func detectMIME(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	return mimetype.Detect(content).String()
}

func contentHash(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}
