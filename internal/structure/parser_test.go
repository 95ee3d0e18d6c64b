package structure

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/schedcheck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProbeCSV(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		corrupted bool
		header    bool
		rows      int
		columns   int
		delimiter string
	}{
		{
			name:   "header and one row",
			text:   "Course,Time,Instructor\nCS 301,9:00 AM,Dr. Smith\n",
			header: true, rows: 1, columns: 3, delimiter: ",",
		},
		{
			name:   "semicolon",
			text:   "Course;Time;Room;Days\r\nCS 301;9:00;B12;MWF\r\n",
			header: true, rows: 1, columns: 4, delimiter: ";",
		},
		{
			name:   "tab",
			text:   "Course\tTime\nCS 301\t9:00\n",
			header: true, rows: 1, columns: 2, delimiter: "\t",
		},
		{
			name:   "pipe",
			text:   "a|b|c\n1|2|3\n",
			header: false, rows: 2, columns: 3, delimiter: "|",
		},
		{
			name:   "comma wins ties",
			text:   "x,y;z\n",
			header: false, rows: 1, columns: 2, delimiter: ",",
		},
		{
			name:   "quoted header",
			text:   "\"Course\",\"Days\"\n",
			header: true, rows: 0, columns: 2, delimiter: ",",
		},
		{
			name:   "no header when cells are short or numeric",
			text:   "CS,101\nMA,201\n",
			header: false, rows: 2, columns: 2, delimiter: ",",
		},
		{
			name:   "blank lines ignored",
			text:   "\n\nCourse,Time\n\n\nCS 301,9:00 AM\n\n",
			header: true, rows: 1, columns: 2, delimiter: ",",
		},
		{
			name:      "empty",
			text:      "",
			corrupted: true,
		},
		{
			name:      "whitespace only",
			text:      "  \n\t\n",
			corrupted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ProbeCSV(tt.text)
			assert.Equal(t, domain.FormatCSV, s.Format())
			assert.Equal(t, tt.corrupted, s.Corrupted)
			if tt.corrupted {
				return
			}
			assert.Equal(t, tt.header, s.HasHeader)
			assert.Equal(t, tt.rows, s.RowCount)
			assert.Equal(t, tt.columns, s.ColumnCount)
			assert.Equal(t, tt.delimiter, s.Delimiter)
		})
	}
}

func TestProbePDF(t *testing.T) {
	s := ProbePDF([]byte("%PDF-1.7\n..."))
	assert.False(t, s.Corrupted)
	assert.Equal(t, 1, s.PageCount)

	for _, raw := range [][]byte{nil, []byte("%PD"), []byte("PK\x03\x04"), []byte("%pdf-1.4")} {
		s := ProbePDF(raw)
		assert.True(t, s.Corrupted, "%q", raw)
		assert.Equal(t, 0, s.PageCount)
	}
}

func TestProbeICS(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		corrupted bool
		rows      int
	}{
		{
			name: "two events",
			text: "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nEND:VEVENT\r\nBEGIN:VEVENT\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n",
			rows: 2,
		},
		{
			name:      "missing end",
			text:      "BEGIN:VCALENDAR\nBEGIN:VEVENT\nBEGIN:VEVENT\nBEGIN:VEVENT\n",
			corrupted: true,
			rows:      3,
		},
		{
			name:      "missing begin",
			text:      "BEGIN:VEVENT\nEND:VCALENDAR\n",
			corrupted: true,
			rows:      1,
		},
		{
			name:      "empty",
			text:      "",
			corrupted: true,
		},
		{
			name: "no events",
			text: "BEGIN:VCALENDAR\nEND:VCALENDAR",
			rows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ProbeICS(tt.text)
			assert.Equal(t, tt.corrupted, s.Corrupted)
			assert.Equal(t, tt.rows, s.RowCount)
		})
	}
}

func TestProbeJSON(t *testing.T) {
	tests := []struct {
		text      string
		corrupted bool
		rows      int
		kind      string
	}{
		{`[{"course":"CS 301"},{"course":"MA 101"}]`, false, 2, RootArray},
		{`[]`, false, 0, RootArray},
		{`{"courses":[]}`, false, 1, RootObject},
		{`"schedule"`, false, 1, RootString},
		{`42`, false, 1, RootNumber},
		{`true`, false, 1, RootBool},
		{`null`, false, 0, RootNull},
		{`{"course": `, true, 0, ""},
		{``, true, 0, ""},
		{`[1,2`, true, 0, ""},
		{`01`, true, 0, ""},
		{`[01]`, true, 0, ""},
		{`{"credits": 03}`, true, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			s := ProbeJSON(tt.text)
			assert.Equal(t, tt.corrupted, s.Corrupted)
			assert.Equal(t, tt.rows, s.RowCount)
			assert.Equal(t, tt.kind, s.RootKind)
		})
	}
}

func TestProbeTXT(t *testing.T) {
	s := ProbeTXT("CS 301 MWF 9:00 AM\n\n  \nMATH 101 TR 1:00 PM\n")
	assert.False(t, s.Corrupted)
	assert.Equal(t, 2, s.RowCount)

	assert.Equal(t, 0, ProbeTXT("").RowCount)
}

func buildXLSX(t *testing.T, workbookXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?><Types/>`))
	require.NoError(t, err)

	w, err = zw.Create(workbookPart)
	require.NoError(t, err)
	_, err = w.Write([]byte(workbookXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestProbeSpreadsheet(t *testing.T) {
	raw := buildXLSX(t, `<?xml version="1.0" encoding="UTF-8"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheets>
    <sheet name="Fall 2024" sheetId="1"/>
    <sheet name="Spring 2025" sheetId="2"/>
  </sheets>
</workbook>`)

	s := ProbeSpreadsheet(domain.FormatXLSX, raw)
	assert.False(t, s.Corrupted)
	assert.True(t, s.HasHeader)
	assert.Equal(t, []domain.Sheet{{Name: "Fall 2024"}, {Name: "Spring 2025"}}, s.Sheets)

	_, known := s.DataRows()
	assert.False(t, known)

	s = ProbeSpreadsheet(domain.FormatXLSX, []byte("not a zip"))
	assert.False(t, s.Corrupted)
	assert.Equal(t, []domain.Sheet{{Name: "Sheet1"}}, s.Sheets)

	s = ProbeSpreadsheet(domain.FormatXLS, raw)
	assert.Equal(t, domain.FormatXLS, s.Format())
	assert.Equal(t, []domain.Sheet{{Name: "Sheet1"}}, s.Sheets)
}

func TestParser_Probe(t *testing.T) {
	p := NewParser(zap.NewNop())

	t.Run("corrupted ics yields CORRUPTED_FILE", func(t *testing.T) {
		text := "BEGIN:VCALENDAR\nBEGIN:VEVENT\nBEGIN:VEVENT\nBEGIN:VEVENT\n"
		s, f := p.Probe(domain.FormatICS, []byte(text), text, nil)
		assert.True(t, s.IsCorrupted())
		rows, _ := s.DataRows()
		assert.Equal(t, 3, rows)
		require.Len(t, f.Errors, 1)
		assert.Equal(t, domain.CodeCorruptedFile, f.Errors[0].Code)
		assert.Equal(t, domain.SeverityCritical, f.Errors[0].Severity)
	})

	t.Run("csv without data rows warns", func(t *testing.T) {
		text := "Course,Time,Instructor\n"
		_, f := p.Probe(domain.FormatCSV, []byte(text), text, nil)
		assert.Empty(t, f.Errors)
		require.Len(t, f.Warnings, 1)
		assert.Equal(t, domain.CodeNoDataRows, f.Warnings[0].Code)
		assert.Equal(t, domain.ImpactSignificant, f.Warnings[0].Impact)
	})

	t.Run("json without rows does not warn", func(t *testing.T) {
		_, f := p.Probe(domain.FormatJSON, []byte("[]"), "[]", nil)
		assert.Empty(t, f.Errors)
		assert.Empty(t, f.Warnings)
	})

	t.Run("xlsx never warns about rows", func(t *testing.T) {
		_, f := p.Probe(domain.FormatXLSX, []byte("PK"), "PK", nil)
		assert.Empty(t, f.Errors)
		assert.Empty(t, f.Warnings)
	})

	t.Run("unknown format", func(t *testing.T) {
		s, f := p.Probe(domain.FormatUnknown, []byte("MZ"), "MZ", nil)
		assert.Equal(t, domain.FormatUnknown, s.Format())
		assert.False(t, s.IsCorrupted())
		assert.Empty(t, f.Errors)
	})

	t.Run("decode failure on text format", func(t *testing.T) {
		s, f := p.Probe(domain.FormatCSV, []byte("x"), "", errors.New("bad bytes"))
		assert.True(t, s.IsCorrupted())
		assert.Equal(t, domain.FormatCSV, s.Format())
		require.Len(t, f.Errors, 2)
		assert.Equal(t, domain.CodeStructureValidationFailed, f.Errors[0].Code)
		assert.Equal(t, domain.SeverityHigh, f.Errors[0].Severity)
		assert.True(t, f.Errors[0].Recoverable)
		assert.Equal(t, domain.CodeCorruptedFile, f.Errors[1].Code)
	})

	t.Run("decode failure ignored for binary formats", func(t *testing.T) {
		s, f := p.Probe(domain.FormatPDF, []byte("%PDF-1.4"), "", errors.New("bad bytes"))
		assert.False(t, s.IsCorrupted())
		assert.Empty(t, f.Errors)
	})
}
