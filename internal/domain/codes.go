package domain

// Code identifies a finding. Error and warning codes are disjoint.
type Code string

// Error codes.
const (
	CodeInvalidFilename           Code = "INVALID_FILENAME"
	CodeUnsupportedFileType       Code = "UNSUPPORTED_FILE_TYPE"
	CodeFileTooLarge              Code = "FILE_TOO_LARGE"
	CodeEmptyFile                 Code = "EMPTY_FILE"
	CodeSuspiciousFilename        Code = "SUSPICIOUS_FILENAME"
	CodeMaliciousContent          Code = "MALICIOUS_CONTENT"
	CodeCorruptedFile             Code = "CORRUPTED_FILE"
	CodeStructureValidationFailed Code = "STRUCTURE_VALIDATION_FAILED"
)

// Warning codes.
const (
	CodeUnexpectedMIMEType    Code = "UNEXPECTED_MIME_TYPE"
	CodeSecurityScanFailed    Code = "SECURITY_SCAN_FAILED"
	CodeHighSpecialCharRatio  Code = "HIGH_SPECIAL_CHAR_RATIO"
	CodeBinaryInTextFile      Code = "BINARY_IN_TEXT_FILE"
	CodeNoDataRows            Code = "NO_DATA_ROWS"
	CodeLowConfidenceSchedule Code = "LOW_CONFIDENCE_SCHEDULE"
	CodeMissingTimeData       Code = "MISSING_TIME_DATA"
	CodeContentAnalysisFailed Code = "CONTENT_ANALYSIS_FAILED"
)

// SecurityFlag is an internal marker raised by the security scanner.
// Each distinct flag lowers the security score.
type SecurityFlag string

const (
	FlagMaliciousContent SecurityFlag = "malicious_content"
	FlagUnusualEncoding  SecurityFlag = "unusual_encoding"
	FlagBinaryContent    SecurityFlag = "binary_content"
	FlagScanFailed       SecurityFlag = "scan_failed"
)
