package security

import (
	"errors"
	"strings"
	"testing"

	"github.com/schedcheck/internal/domain"
	"github.com/schedcheck/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestScanner() *Scanner {
	return NewScanner(policy.Default(), zap.NewNop())
}

func TestScanner_DangerousContent(t *testing.T) {
	s := newTestScanner()

	tests := []struct {
		name      string
		text      string
		malicious bool
	}{
		{"script tag", "Course,Time\n<script>alert(1)</script>", true},
		{"script tag with spaces", "< SCRIPT src=x>", true},
		{"javascript uri", "link: javascript:void(0)", true},
		{"vbscript uri", "VBScript:msgbox", true},
		{"event handler", `<img src=x onerror="steal()">`, true},
		{"iframe", "<iframe src=evil>", true},
		{"object", "<object data=x>", true},
		{"embed", "<embed src=x>", true},
		{"data uri", "data:text/html;base64,AAAA", true},
		{"embedded executable", "download setup.exe now", true},
		{"plain schedule", "CS 301,9:00 AM,Dr. Smith", false},
		{"url with com", "see www.example.com for details", false},
		{"description of a class", "Object-oriented programming, scripting languages", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := s.Scan(tt.text, nil, domain.FormatTXT)
			assert.Equal(t, tt.malicious, hasError(r, domain.CodeMaliciousContent))
			assert.Equal(t, tt.malicious, hasFlag(r, domain.FlagMaliciousContent))
		})
	}
}

func TestScanner_FirstMatchOnly(t *testing.T) {
	s := newTestScanner()
	text := "<script>a()</script><iframe></iframe>javascript:x <embed>"

	r := s.Scan(text, nil, domain.FormatTXT)

	count := 0
	for _, e := range r.Errors {
		if e.Code == domain.CodeMaliciousContent {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, domain.SeverityCritical, r.Errors[0].Severity)
	assert.False(t, r.Errors[0].Recoverable)
}

func TestScanner_DecodeFailure(t *testing.T) {
	s := newTestScanner()

	r := s.Scan("", errors.New("boom"), domain.FormatCSV)

	assert.Empty(t, r.Errors)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, domain.CodeSecurityScanFailed, r.Warnings[0].Code)
	assert.Equal(t, domain.ImpactModerate, r.Warnings[0].Impact)
	assert.Equal(t, []domain.SecurityFlag{domain.FlagScanFailed}, r.Flags)
}

func TestScanner_SpecialCharRatio(t *testing.T) {
	s := newTestScanner()

	r := s.Scan("@@@@ #### $$$$ %%%% abc", nil, domain.FormatTXT)
	assert.True(t, hasWarning(r, domain.CodeHighSpecialCharRatio))
	assert.True(t, hasFlag(r, domain.FlagUnusualEncoding))

	r = s.Scan("Course, Section (A); Time: 9:00!", nil, domain.FormatTXT)
	assert.False(t, hasWarning(r, domain.CodeHighSpecialCharRatio))
}

func TestScanner_BinaryOnlyForTextFormats(t *testing.T) {
	s := newTestScanner()
	text := "schedule\x00\x01\x02 data " + strings.Repeat("a", 20)

	r := s.Scan(text, nil, domain.FormatCSV)
	assert.True(t, hasWarning(r, domain.CodeBinaryInTextFile))
	assert.True(t, hasFlag(r, domain.FlagBinaryContent))

	r = s.Scan(text, nil, domain.FormatPDF)
	assert.False(t, hasWarning(r, domain.CodeBinaryInTextFile))
	assert.False(t, hasFlag(r, domain.FlagBinaryContent))
}

func TestRatios(t *testing.T) {
	assert.Equal(t, 0.0, SpecialCharRatio(""))
	assert.Equal(t, 0.0, BinaryRatio(""))
	assert.InDelta(t, 0.5, SpecialCharRatio("a#"), 1e-9)
	assert.InDelta(t, 0.5, BinaryRatio("a�"), 1e-9)
	assert.Equal(t, 0.0, BinaryRatio("line one\r\nline\ttwo"))
}

func hasError(r Result, code domain.Code) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

func hasWarning(r Result, code domain.Code) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func hasFlag(r Result, flag domain.SecurityFlag) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}
