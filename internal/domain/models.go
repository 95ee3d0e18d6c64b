// Package domain contains the core domain models and types.
// These models are the contract between the validation engine, the upload
// surfaces that feed it, and the import pipeline that consumes its verdict.
package domain

import "time"

// Severity ranks a ValidationError. High and critical errors block validity.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// IsValid checks if the severity value is one of the allowed values.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	default:
		return false
	}
}

// Blocking reports whether an error of this severity makes a result invalid.
func (s Severity) Blocking() bool {
	return s == SeverityHigh || s == SeverityCritical
}

// Impact ranks a ValidationWarning. Warnings never block validity.
type Impact string

const (
	ImpactMinor       Impact = "minor"
	ImpactModerate    Impact = "moderate"
	ImpactSignificant Impact = "significant"
)

// IsValid checks if the impact value is one of the allowed values.
func (i Impact) IsValid() bool {
	switch i {
	case ImpactMinor, ImpactModerate, ImpactSignificant:
		return true
	default:
		return false
	}
}

// FileInput is a single uploaded file as handed to the validator.
type FileInput struct {
	// Name is the client-supplied file name.
	Name string

	// SizeBytes is the declared size. It may disagree with len(Content).
	SizeBytes uint64

	// DeclaredMIMEType is the MIME type reported by the client.
	DeclaredMIMEType string

	// LastModified is the client-reported modification time.
	LastModified time.Time

	// Content is the raw file content.
	Content []byte
}

// ValidationResult is the single verdict produced for one file.
type ValidationResult struct {
	// IsValid is true iff no error has severity high or critical.
	IsValid bool `json:"isValid"`

	Errors   []ValidationError   `json:"errors"`
	Warnings []ValidationWarning `json:"warnings"`

	Metadata FileMetadata `json:"metadata"`

	Recommendations []string `json:"recommendations"`

	// SecurityScore is advisory, in [0,100]. Gate on IsValid, not on this.
	SecurityScore int `json:"securityScore"`
}

// HasErrorCode reports whether the result carries an error with the given code.
func (r *ValidationResult) HasErrorCode(code Code) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// HasWarningCode reports whether the result carries a warning with the given code.
func (r *ValidationResult) HasWarningCode(code Code) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// ValidationError is a finding that may block the import.
type ValidationError struct {
	Code       Code     `json:"code"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Field      string   `json:"field,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`

	// Recoverable tells the caller whether a trivial fix (e.g. a rename)
	// followed by re-validation could succeed.
	Recoverable bool `json:"recoverable"`
}

// ValidationWarning is an advisory finding.
type ValidationWarning struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	Impact     Impact `json:"impact"`
	Suggestion string `json:"suggestion,omitempty"`
}

// FileMetadata describes the file. Built once by the orchestrator.
type FileMetadata struct {
	FileName     string    `json:"fileName"`
	FileSize     uint64    `json:"fileSize"`
	FileType     Format    `json:"fileType"`
	Extension    string    `json:"extension"`
	MimeType     string    `json:"mimeType"`
	LastModified time.Time `json:"lastModified"`

	// DetectedMimeType is sniffed from the content's magic bytes. Informational.
	DetectedMimeType string `json:"detectedMimeType,omitempty"`

	// ContentHash is the hex xxhash64 of the raw content.
	ContentHash string `json:"contentHash,omitempty"`

	Structure  FileStructure        `json:"structure"`
	Content    ContentAnalysis      `json:"content"`
	University *UniversityDetection `json:"university,omitempty"`
}

// PatternType names the kind of token a DetectedPattern describes.
type PatternType string

const (
	PatternCourseCode     PatternType = "course_code"
	PatternTimeFormat     PatternType = "time_format"
	PatternDayFormat      PatternType = "day_format"
	PatternInstructorName PatternType = "instructor_name"
	PatternLocation       PatternType = "location"
	PatternCreditHours    PatternType = "credit_hours"
)

// ContentAnalysis summarises what the decoded text appears to contain.
type ContentAnalysis struct {
	IsEmpty           bool              `json:"isEmpty"`
	HasScheduleData   bool              `json:"hasScheduleData"`
	HasCourseData     bool              `json:"hasCourseData"`
	HasTimeData       bool              `json:"hasTimeData"`
	HasInstructorData bool              `json:"hasInstructorData"`
	Confidence        float64           `json:"confidence"`
	Patterns          []DetectedPattern `json:"patterns"`
	SampleData        []string          `json:"sampleData"`
}

// DetectedPattern is one detector's hit summary.
type DetectedPattern struct {
	Type    PatternType `json:"type"`
	Pattern string      `json:"pattern"`

	// Examples holds at most three distinct matches, in order of appearance.
	Examples   []string `json:"examples"`
	Confidence float64  `json:"confidence"`
	Count      int      `json:"count"`
}

// UniversityDetection names the LMS a file most likely came from.
type UniversityDetection struct {
	Name            string   `json:"name,omitempty"`
	Confidence      float64  `json:"confidence"`
	Indicators      []string `json:"indicators"`
	SuggestedFormat string   `json:"suggestedFormat,omitempty"`
}

// ValidationResponse wraps a result for the HTTP surface.
type ValidationResponse struct {
	// Success mirrors Result.IsValid when a result was produced.
	Success bool `json:"success"`

	Result *ValidationResult `json:"result,omitempty"`

	// Error contains transport-level failure details (missing upload etc).
	Error string `json:"error,omitempty"`

	RequestID   string    `json:"request_id,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}
