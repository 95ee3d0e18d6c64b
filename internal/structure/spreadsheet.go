package structure

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"

	"github.com/schedcheck/internal/domain"
)

const (
	workbookPart     = "xl/workbook.xml"
	maxWorkbookBytes = 4 << 20
	defaultSheetName = "Sheet1"
)

type workbook struct {
	Sheets []struct {
		Name string `xml:"name,attr"`
	} `xml:"sheets>sheet"`
}

// ProbeSpreadsheet reports a workbook with a header row. Deep parsing is
// left to the importer, so the result is never corrupted. Sheet names are
// read from an OOXML package when one is present.
func ProbeSpreadsheet(format domain.Format, raw []byte) domain.SpreadsheetStructure {
	s := domain.SpreadsheetStructure{
		StructureBase: domain.StructureBase{Kind: format, HasHeader: true},
		Sheets:        []domain.Sheet{{Name: defaultSheetName}},
	}
	if format != domain.FormatXLSX {
		return s
	}
	if names := ooxmlSheetNames(raw); len(names) > 0 {
		s.Sheets = s.Sheets[:0]
		for _, name := range names {
			s.Sheets = append(s.Sheets, domain.Sheet{Name: name})
		}
	}
	return s
}

// ooxmlSheetNames returns the sheet names declared in the workbook part, or
// nil when raw is not a readable OOXML package.
func ooxmlSheetNames(raw []byte) []string {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil
	}

	for _, zf := range zr.File {
		if zf.Name != workbookPart {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()

		var wb workbook
		if err := xml.NewDecoder(io.LimitReader(rc, maxWorkbookBytes)).Decode(&wb); err != nil {
			return nil
		}
		names := make([]string, 0, len(wb.Sheets))
		for _, sh := range wb.Sheets {
			if sh.Name != "" {
				names = append(names, sh.Name)
			}
		}
		return names
	}
	return nil
}
