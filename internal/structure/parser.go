// Package structure runs a shallow structural probe for each supported
// format. Probes confirm a file is parseable in principle; they do not
// extract its rows.
package structure

import (
	"fmt"

	"github.com/schedcheck/internal/domain"
	"go.uber.org/zap"
)

// Parser dispatches to the probe for a format.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a Parser.
func NewParser(logger *zap.Logger) *Parser {
	return &Parser{logger: logger.Named("structure")}
}

// Probe inspects content as the given format. raw is the undecoded content,
// text the decoded content and decodeErr the decode error, if any.
func (p *Parser) Probe(format domain.Format, raw []byte, text string, decodeErr error) (s domain.FileStructure, f domain.Findings) {
	defer func() {
		if r := recover(); r != nil {
			err := domain.RecoveredError("structure", r)
			p.logger.Warn("structure probe panicked", zap.String("format", string(format)), zap.Error(err))
			s, f = Failed(format, err)
		}
	}()

	if decodeErr != nil && format.IsTextNative() {
		p.logger.Debug("skipping probe of undecodable text", zap.String("format", string(format)), zap.Error(decodeErr))
		return Failed(format, decodeErr)
	}

	s = p.dispatch(format, raw, text)
	p.logger.Debug("structure probed",
		zap.String("format", string(format)),
		zap.Bool("corrupted", s.IsCorrupted()),
	)
	return s, Check(s)
}

func (p *Parser) dispatch(format domain.Format, raw []byte, text string) domain.FileStructure {
	switch format {
	case domain.FormatCSV:
		return ProbeCSV(text)
	case domain.FormatPDF:
		return ProbePDF(raw)
	case domain.FormatXLSX, domain.FormatXLS:
		return ProbeSpreadsheet(format, raw)
	case domain.FormatICS:
		return ProbeICS(text)
	case domain.FormatJSON:
		return ProbeJSON(text)
	case domain.FormatTXT:
		return ProbeTXT(text)
	default:
		return domain.UnknownStructure{StructureBase: domain.StructureBase{Kind: domain.FormatUnknown}}
	}
}

// Check derives the findings implied by a probed structure.
func Check(s domain.FileStructure) domain.Findings {
	var f domain.Findings

	if s.IsCorrupted() {
		f.AddError(domain.ValidationError{
			Code:       domain.CodeCorruptedFile,
			Message:    fmt.Sprintf("File does not look like a valid %s file", s.Format()),
			Severity:   domain.SeverityCritical,
			Field:      "structure",
			Suggestion: "Export the file again from its source system",
		})
	}

	switch s.Format() {
	case domain.FormatCSV, domain.FormatXLSX, domain.FormatXLS:
		if rows, known := s.DataRows(); known && rows == 0 {
			f.AddWarning(domain.ValidationWarning{
				Code:       domain.CodeNoDataRows,
				Message:    "File has no data rows",
				Impact:     domain.ImpactSignificant,
				Suggestion: "Check that the export includes at least one class",
			})
		}
	}

	return f
}

// Failed is the structure and findings reported when a probe cannot run.
func Failed(format domain.Format, err error) (domain.FileStructure, domain.Findings) {
	s := domain.UnknownStructure{StructureBase: domain.StructureBase{Kind: format, Corrupted: true}}

	var f domain.Findings
	f.AddError(domain.ValidationError{
		Code:        domain.CodeStructureValidationFailed,
		Message:     "File structure could not be validated: " + err.Error(),
		Severity:    domain.SeverityHigh,
		Field:       "structure",
		Suggestion:  "Save the file as UTF-8 and upload it again",
		Recoverable: true,
	})
	f.Merge(Check(s))
	return s, f
}
