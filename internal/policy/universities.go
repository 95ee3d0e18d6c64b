package policy

import "regexp"

// DefaultUniversities returns the built-in LMS signature table in priority order.
func DefaultUniversities() []University {
	return []University{
		canvas(),
		blackboard(),
		moodle(),
		brightspace(),
		banner(),
	}
}

func canvas() University {
	return University{
		Name:            "Canvas",
		SuggestedFormat: "canvas_csv",
		Signatures: []*regexp.Regexp{
			regexp.MustCompile(`(?i)canvas`),
			regexp.MustCompile(`(?i)instructure`),
			regexp.MustCompile(`(?i)\bcourse_id\b`),
			regexp.MustCompile(`(?i)\bsection_id\b`),
		},
	}
}

func blackboard() University {
	return University{
		Name:            "Blackboard",
		SuggestedFormat: "blackboard_csv",
		Signatures: []*regexp.Regexp{
			regexp.MustCompile(`(?i)blackboard`),
			regexp.MustCompile(`(?i)\bbb_[a-z]+`),
			regexp.MustCompile(`(?i)\bcourse_pk1?\b`),
			regexp.MustCompile(`(?i)\bexternal_course_key\b`),
		},
	}
}

func moodle() University {
	return University{
		Name:            "Moodle",
		SuggestedFormat: "moodle_ics",
		Signatures: []*regexp.Regexp{
			regexp.MustCompile(`(?i)moodle`),
			regexp.MustCompile(`(?i)\bmdl_[a-z]+`),
			regexp.MustCompile(`(?i)\bcourseid\b`),
			regexp.MustCompile(`(?i)\bshortname\b`),
		},
	}
}

func brightspace() University {
	return University{
		Name:            "Brightspace",
		SuggestedFormat: "brightspace_csv",
		Signatures: []*regexp.Regexp{
			regexp.MustCompile(`(?i)brightspace`),
			regexp.MustCompile(`(?i)\bd2l\b`),
			regexp.MustCompile(`(?i)desire2learn`),
			regexp.MustCompile(`(?i)\borgunitid\b`),
		},
	}
}

func banner() University {
	return University{
		Name:            "Banner",
		SuggestedFormat: "banner_csv",
		Signatures: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bbanner\b`),
			regexp.MustCompile(`(?i)ellucian`),
			regexp.MustCompile(`(?i)\bcrn\b`),
			regexp.MustCompile(`(?i)\bterm_code\b`),
			regexp.MustCompile(`(?i)\bssbsect\b`),
		},
	}
}
