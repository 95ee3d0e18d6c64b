package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/schedcheck/internal/domain"
	"github.com/schedcheck/internal/intake"
)

var (
	accent  = lipgloss.Color("#2563EB")
	dim     = lipgloss.Color("#6B7280")
	faint   = lipgloss.Color("#3F3F46")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2).
			Width(68)

	titleStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	passStyle     = lipgloss.NewStyle().Foreground(success).Bold(true)
	failStyle     = lipgloss.NewStyle().Foreground(danger).Bold(true)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	separatorLine = lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("─", 64))
)

// RenderResult renders one validation result for the terminal.
func RenderResult(path string, r *domain.ValidationResult) string {
	var b strings.Builder

	verdict := passStyle.Render("VALID")
	if !r.IsValid {
		verdict = failStyle.Render("INVALID")
	}
	header := titleStyle.Render(path) + "  " + verdict + "\n" +
		dimStyle.Render(fmt.Sprintf("%s · %s · security score %d/100",
			r.Metadata.FileType, intake.HumanSize(r.Metadata.FileSize), r.SecurityScore))
	b.WriteString(boxStyle.Render(header))
	b.WriteString("\n")

	m := r.Metadata
	b.WriteString(fmt.Sprintf("  Structure   %s\n", describeStructure(m.Structure)))
	b.WriteString(fmt.Sprintf("  Content     %s\n", describeContent(m.Content)))
	if m.University != nil {
		b.WriteString(fmt.Sprintf("  Source      %s (%.0f%%)\n", m.University.Name, m.University.Confidence*100))
	}

	if len(r.Errors) > 0 || len(r.Warnings) > 0 {
		b.WriteString("  " + separatorLine + "\n")
	}
	for _, e := range r.Errors {
		tag := errorTagStyle.Render(fmt.Sprintf("%-8s", strings.ToUpper(string(e.Severity))))
		b.WriteString(fmt.Sprintf("  %s %s  %s\n", tag, e.Code, e.Message))
		if e.Suggestion != "" {
			b.WriteString("           " + dimStyle.Render("→ "+e.Suggestion) + "\n")
		}
	}
	for _, w := range r.Warnings {
		tag := warnTagStyle.Render(fmt.Sprintf("%-8s", strings.ToUpper(string(w.Impact))))
		b.WriteString(fmt.Sprintf("  %s %s  %s\n", tag, w.Code, w.Message))
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("  " + separatorLine + "\n")
		for _, rec := range r.Recommendations {
			b.WriteString("  • " + rec + "\n")
		}
	}
	b.WriteString("\n")

	return b.String()
}

func describeStructure(s domain.FileStructure) string {
	if s == nil {
		return "-"
	}
	var parts []string
	switch v := s.(type) {
	case domain.TabularStructure:
		parts = append(parts, fmt.Sprintf("%d rows × %d columns", v.RowCount, v.ColumnCount))
		if v.HasHeader {
			parts = append(parts, "header")
		}
	case domain.DocumentStructure:
		parts = append(parts, fmt.Sprintf("%d page(s)", v.PageCount))
	case domain.SpreadsheetStructure:
		names := make([]string, 0, len(v.Sheets))
		for _, sh := range v.Sheets {
			names = append(names, sh.Name)
		}
		parts = append(parts, "sheets: "+strings.Join(names, ", "))
	case domain.CalendarStructure:
		parts = append(parts, fmt.Sprintf("%d event(s)", v.RowCount))
	case domain.JSONStructure:
		parts = append(parts, fmt.Sprintf("%s, %d record(s)", v.RootKind, v.RowCount))
	case domain.TextStructure:
		parts = append(parts, fmt.Sprintf("%d line(s)", v.RowCount))
	default:
		parts = append(parts, string(s.Format()))
	}
	if s.IsCorrupted() {
		parts = append(parts, failStyle.Render("corrupted"))
	}
	return strings.Join(parts, ", ")
}

func describeContent(c domain.ContentAnalysis) string {
	if c.IsEmpty {
		return "empty"
	}
	var found []string
	if c.HasCourseData {
		found = append(found, "courses")
	}
	if c.HasTimeData {
		found = append(found, "times")
	}
	if c.HasInstructorData {
		found = append(found, "instructors")
	}
	if len(found) == 0 {
		found = append(found, "no schedule fields")
	}
	return fmt.Sprintf("%s (confidence %.0f%%)", strings.Join(found, ", "), c.Confidence*100)
}
