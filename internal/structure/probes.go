package structure

import (
	"bytes"
	stdjson "encoding/json"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
	"github.com/schedcheck/internal/domain"
)

// csvDelimiters are tried in order; ties keep the earlier delimiter.
var csvDelimiters = []string{",", ";", "\t", "|"}

var headerCell = regexp.MustCompile(`^[A-Za-z\s]+$`)

// nonBlankLines splits text into lines, dropping blank ones. Lines are
// returned untrimmed apart from a trailing carriage return.
func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// ProbeCSV detects the delimiter and header of delimited text.
func ProbeCSV(text string) domain.TabularStructure {
	s := domain.TabularStructure{StructureBase: domain.StructureBase{Kind: domain.FormatCSV}}

	lines := nonBlankLines(text)
	if len(lines) == 0 {
		s.Corrupted = true
		return s
	}

	first := lines[0]
	for _, d := range csvDelimiters {
		if n := len(strings.Split(first, d)); n > s.ColumnCount {
			s.ColumnCount = n
			s.Delimiter = d
		}
	}
	if s.ColumnCount == 0 {
		s.Corrupted = true
		return s
	}

	for _, cell := range strings.Split(first, s.Delimiter) {
		cell = strings.Trim(strings.TrimSpace(cell), `"'`)
		if len(cell) > 2 && headerCell.MatchString(cell) {
			s.HasHeader = true
			break
		}
	}

	s.RowCount = len(lines)
	if s.HasHeader {
		s.RowCount--
	}
	return s
}

var pdfMagic = []byte("%PDF")

// ProbePDF checks the PDF signature. Pages are not counted; a valid file
// reports one page.
func ProbePDF(raw []byte) domain.DocumentStructure {
	s := domain.DocumentStructure{StructureBase: domain.StructureBase{Kind: domain.FormatPDF}}
	if len(raw) < len(pdfMagic) || !bytes.Equal(raw[:len(pdfMagic)], pdfMagic) {
		s.Corrupted = true
		return s
	}
	s.PageCount = 1
	return s
}

// ProbeICS checks the calendar envelope and counts events.
func ProbeICS(text string) domain.CalendarStructure {
	s := domain.CalendarStructure{StructureBase: domain.StructureBase{Kind: domain.FormatICS}}

	var begin, end bool
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.EqualFold(line, "BEGIN:VCALENDAR"):
			begin = true
		case strings.EqualFold(line, "END:VCALENDAR"):
			end = true
		case strings.EqualFold(line, "BEGIN:VEVENT"):
			s.RowCount++
		}
	}

	s.Corrupted = !begin || !end
	return s
}

// JSON root kinds.
const (
	RootArray  = "array"
	RootObject = "object"
	RootString = "string"
	RootNumber = "number"
	RootBool   = "bool"
	RootNull   = "null"
)

// ProbeJSON parses the document and counts its top-level records.
func ProbeJSON(text string) domain.JSONStructure {
	s := domain.JSONStructure{StructureBase: domain.StructureBase{Kind: domain.FormatJSON}}

	// goccy accepts numbers with leading zeros; the stdlib grammar check does not.
	data := []byte(text)
	if !stdjson.Valid(data) {
		s.Corrupted = true
		return s
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		s.Corrupted = true
		return s
	}

	switch v := root.(type) {
	case nil:
		s.RootKind = RootNull
	case []any:
		s.RootKind = RootArray
		s.RowCount = len(v)
	case map[string]any:
		s.RootKind = RootObject
		s.RowCount = 1
	case string:
		s.RootKind = RootString
		s.RowCount = 1
	case bool:
		s.RootKind = RootBool
		s.RowCount = 1
	default:
		s.RootKind = RootNumber
		s.RowCount = 1
	}
	return s
}

// ProbeTXT counts non-blank lines. Plain text is never corrupted.
func ProbeTXT(text string) domain.TextStructure {
	return domain.TextStructure{
		StructureBase: domain.StructureBase{Kind: domain.FormatTXT},
		RowCount:      len(nonBlankLines(text)),
	}
}
