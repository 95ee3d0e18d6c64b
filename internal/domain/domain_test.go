package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverity(t *testing.T) {
	tests := []struct {
		severity Severity
		valid    bool
		blocking bool
	}{
		{SeverityLow, true, false},
		{SeverityMedium, true, false},
		{SeverityHigh, true, true},
		{SeverityCritical, true, true},
		{Severity("fatal"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.severity.IsValid())
			assert.Equal(t, tt.blocking, tt.severity.Blocking())
		})
	}
}

func TestFormatFromExtension(t *testing.T) {
	tests := map[string]Format{
		"csv":  FormatCSV,
		".CSV": FormatCSV,
		"xlsx": FormatXLSX,
		".ics": FormatICS,
		"Json": FormatJSON,
		"docx": FormatUnknown,
		"":     FormatUnknown,
		".tar": FormatUnknown,
		"txt":  FormatTXT,
		".pdf": FormatPDF,
		".xls": FormatXLS,
	}
	for ext, want := range tests {
		assert.Equal(t, want, FormatFromExtension(ext), ext)
	}

	assert.True(t, FormatCSV.IsTextNative())
	assert.False(t, FormatPDF.IsTextNative())
	assert.False(t, FormatXLSX.IsTextNative())
}

func TestStructureVariants(t *testing.T) {
	rows, known := TabularStructure{RowCount: 3}.DataRows()
	assert.True(t, known)
	assert.Equal(t, 3, rows)

	_, known = SpreadsheetStructure{}.DataRows()
	assert.False(t, known)

	_, known = DocumentStructure{}.DataRows()
	assert.False(t, known)

	var s FileStructure = JSONStructure{StructureBase: StructureBase{Kind: FormatJSON, Corrupted: true}}
	assert.Equal(t, FormatJSON, s.Format())
	assert.True(t, s.IsCorrupted())
}

func TestStageError(t *testing.T) {
	err := WrapError("security", ErrDecodeFailed)
	assert.Equal(t, "security: content could not be decoded as text", err.Error())
	assert.True(t, errors.Is(err, ErrDecodeFailed))

	wrapped := fmt.Errorf("validate: %w", err)
	assert.Equal(t, "security", StageOf(wrapped))
	assert.Equal(t, "", StageOf(ErrDecodeFailed))

	recovered := RecoveredError("content", "boom")
	assert.Equal(t, "content: panic: boom", recovered.Error())

	cause := errors.New("index out of range")
	assert.ErrorIs(t, RecoveredError("structure", cause), cause)
}

func TestFindingsMerge(t *testing.T) {
	var f Findings
	f.AddError(ValidationError{Code: CodeEmptyFile})
	f.AddWarning(ValidationWarning{Code: CodeUnexpectedMIMEType})

	var other Findings
	other.AddError(ValidationError{Code: CodeMaliciousContent})

	f.Merge(other)
	assert.Len(t, f.Errors, 2)
	assert.Equal(t, CodeEmptyFile, f.Errors[0].Code)
	assert.Equal(t, CodeMaliciousContent, f.Errors[1].Code)
	assert.Len(t, f.Warnings, 1)
}

func TestResultHasCode(t *testing.T) {
	r := &ValidationResult{
		Errors:   []ValidationError{{Code: CodeCorruptedFile}},
		Warnings: []ValidationWarning{{Code: CodeUnexpectedMIMEType}},
	}
	assert.True(t, r.HasErrorCode(CodeCorruptedFile))
	assert.False(t, r.HasErrorCode(CodeEmptyFile))
	assert.True(t, r.HasWarningCode(CodeUnexpectedMIMEType))
}
