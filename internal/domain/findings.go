package domain

// Findings is what a single stage contributes to the report.
type Findings struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// AddError appends an error finding.
func (f *Findings) AddError(e ValidationError) {
	f.Errors = append(f.Errors, e)
}

// AddWarning appends a warning finding.
func (f *Findings) AddWarning(w ValidationWarning) {
	f.Warnings = append(f.Warnings, w)
}

// Merge appends other's findings after f's, preserving order.
func (f *Findings) Merge(other Findings) {
	f.Errors = append(f.Errors, other.Errors...)
	f.Warnings = append(f.Warnings, other.Warnings...)
}
