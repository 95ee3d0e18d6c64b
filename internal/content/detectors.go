package content

import (
	"math"
	"regexp"

	"github.com/schedcheck/internal/domain"
)

// MaxExamples caps DetectedPattern.Examples.
const MaxExamples = 3

// Detector inspects text and reports a pattern, or nil when nothing matched.
type Detector func(text string) *domain.DetectedPattern

// DefaultDetectors returns the built-in detectors in report order.
func DefaultDetectors() []Detector {
	return []Detector{
		DetectCourseCodes,
		DetectTimes,
		DetectDays,
	}
}

var (
	courseCodeRe = regexp.MustCompile(`\b[A-Z]{2,4}[ \t]*\d{3,4}[A-Z]?\b`)
	timeRe       = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*(?:AM|PM)\b`)
	dayRe        = regexp.MustCompile(`\b(?:(?i:monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tues?|wed|thurs?|thu|fri|sat|sun)|MWF|MW|TTh|TR|M|T|W|R|F)\b`)
)

// DetectCourseCodes finds tokens like "CS 301" or "MATH1010A".
func DetectCourseCodes(text string) *domain.DetectedPattern {
	return detect(text, courseCodeRe, domain.PatternCourseCode, 5)
}

// DetectTimes finds 12-hour clock times like "9:00 AM".
func DetectTimes(text string) *domain.DetectedPattern {
	return detect(text, timeRe, domain.PatternTimeFormat, 10)
}

// DetectDays finds day names and registrar abbreviations (MWF, TR, M).
func DetectDays(text string) *domain.DetectedPattern {
	return detect(text, dayRe, domain.PatternDayFormat, 20)
}

// detect runs re over text. Confidence grows linearly with the match count
// and saturates at saturation matches.
func detect(text string, re *regexp.Regexp, kind domain.PatternType, saturation int) *domain.DetectedPattern {
	matches := re.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	return &domain.DetectedPattern{
		Type:       kind,
		Pattern:    re.String(),
		Examples:   distinct(matches, MaxExamples),
		Confidence: math.Min(1, float64(len(matches))/float64(saturation)),
		Count:      len(matches),
	}
}

// distinct returns up to limit unique values in order of first appearance.
func distinct(values []string, limit int) []string {
	seen := make(map[string]bool, limit)
	out := make([]string, 0, limit)
	for _, v := range values {
		if len(out) == limit {
			break
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Indicator regex sets. They are broader than the detectors and only drive
// the boolean flags.
var (
	clockTimeRe = regexp.MustCompile(`\b\d{1,2}:\d{2}(?:\s*[AaPp][Mm])?\b`)

	scheduleIndicators = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:schedule|class|course|section|semester)`),
		regexp.MustCompile(`(?i)\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tue|wed|thu|fri|sat|sun)\b`),
		regexp.MustCompile(`\b(?:MWF|MW|TTh|TR)\b`),
		clockTimeRe,
	}
	courseIndicators = []*regexp.Regexp{
		courseCodeRe,
		regexp.MustCompile(`(?i)\bcourse[\s_-]*(?:code|number|no|id)\b`),
		regexp.MustCompile(`(?i)\b(?:subject|department)\b`),
	}
	timeIndicators = []*regexp.Regexp{
		clockTimeRe,
		regexp.MustCompile(`(?i)\b(?:time|start|end)`),
	}
	instructorIndicators = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:instructor|professor|teacher)`),
		regexp.MustCompile(`(?i)\b(?:prof|dr)\.`),
	}
)

func anyMatch(text string, res []*regexp.Regexp) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// HasScheduleData reports schedule vocabulary, day names or clock times.
func HasScheduleData(text string) bool { return anyMatch(text, scheduleIndicators) }

// HasCourseData reports course codes or course column names.
func HasCourseData(text string) bool { return anyMatch(text, courseIndicators) }

// HasTimeData reports clock times or time column names.
func HasTimeData(text string) bool { return anyMatch(text, timeIndicators) }

// HasInstructorData reports instructor column names or titles.
func HasInstructorData(text string) bool { return anyMatch(text, instructorIndicators) }
