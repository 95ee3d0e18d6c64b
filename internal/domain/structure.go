package domain

import "strings"

// Format is the canonical file format derived from the extension.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatPDF     Format = "pdf"
	FormatXLSX    Format = "xlsx"
	FormatXLS     Format = "xls"
	FormatICS     Format = "ics"
	FormatJSON    Format = "json"
	FormatTXT     Format = "txt"
	FormatUnknown Format = "unknown"
)

// FormatFromExtension maps a file extension (with or without the dot,
// any case) to its Format.
func FormatFromExtension(ext string) Format {
	switch Format(strings.ToLower(strings.TrimPrefix(ext, "."))) {
	case FormatCSV:
		return FormatCSV
	case FormatPDF:
		return FormatPDF
	case FormatXLSX:
		return FormatXLSX
	case FormatXLS:
		return FormatXLS
	case FormatICS:
		return FormatICS
	case FormatJSON:
		return FormatJSON
	case FormatTXT:
		return FormatTXT
	default:
		return FormatUnknown
	}
}

// IsTextNative reports whether files of this format are expected to be text.
func (f Format) IsTextNative() bool {
	switch f {
	case FormatCSV, FormatTXT, FormatJSON, FormatICS:
		return true
	default:
		return false
	}
}

// FileStructure is the result of a structural probe. Each format has its own
// variant carrying only the fields that format can report.
type FileStructure interface {
	Format() Format
	IsCorrupted() bool

	// DataRows returns the number of data rows and whether the probe
	// counted them at all.
	DataRows() (int, bool)
}

// StructureBase holds the fields every variant shares.
type StructureBase struct {
	Kind      Format `json:"format"`
	Corrupted bool   `json:"corrupted"`
	HasHeader bool   `json:"hasHeader"`
}

func (b StructureBase) Format() Format { return b.Kind }

func (b StructureBase) IsCorrupted() bool { return b.Corrupted }

func (StructureBase) DataRows() (int, bool) { return 0, false }

// TabularStructure describes a delimited text file.
type TabularStructure struct {
	StructureBase
	RowCount    int    `json:"rowCount"`
	ColumnCount int    `json:"columnCount"`
	Delimiter   string `json:"delimiter"`
}

func (s TabularStructure) DataRows() (int, bool) { return s.RowCount, true }

// DocumentStructure describes a paginated document.
type DocumentStructure struct {
	StructureBase
	PageCount int `json:"pageCount"`
}

// Sheet is one worksheet of a spreadsheet.
type Sheet struct {
	Name string `json:"name"`
}

// SpreadsheetStructure describes a workbook. Rows are not counted here.
type SpreadsheetStructure struct {
	StructureBase
	Sheets []Sheet `json:"sheets"`
}

// CalendarStructure describes an iCalendar file; RowCount is the event count.
type CalendarStructure struct {
	StructureBase
	RowCount int `json:"rowCount"`
}

func (s CalendarStructure) DataRows() (int, bool) { return s.RowCount, true }

// JSONStructure describes a JSON document.
type JSONStructure struct {
	StructureBase
	RowCount int    `json:"rowCount"`
	RootKind string `json:"rootKind,omitempty"`
}

func (s JSONStructure) DataRows() (int, bool) { return s.RowCount, true }

// TextStructure describes plain text; RowCount is the non-blank line count.
type TextStructure struct {
	StructureBase
	RowCount int `json:"rowCount"`
}

func (s TextStructure) DataRows() (int, bool) { return s.RowCount, true }

// UnknownStructure is produced for unsupported formats and failed probes.
type UnknownStructure struct {
	StructureBase
}
