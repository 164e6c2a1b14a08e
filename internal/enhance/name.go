package enhance

import (
	"regexp"
	"strings"
)

// Column headings OCR occasionally misreads as the patient name when the
// real name row is too faint.
var tableHeaderWords = []string{
	"amount", "adjustments", "paid", "rate", "charged",
	"patient amount", "service", "date", "code", "claim",
	"totals", "details", "remarks", "primary", "processed",
}

var (
	namePrefixRe   = regexp.MustCompile(`(?i)^(The patient name is|Patient name:|Patient:)\s*`)
	embeddedNameRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\b`)
	artifactRe     = regexp.MustCompile(`[._]+`)
	specialCharRe  = regexp.MustCompile(`[^\w\s\-]`)
	multiSpaceRe   = regexp.MustCompile(`\s+`)
	trailingIDRe   = regexp.MustCompile(`\s+[-\d]+$`)
)

// NeedsEnhancement reports whether an extracted client name is absent,
// implausibly short, or actually a table heading, and so should be resolved
// by the enhancer.
func NeedsEnhancement(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) < 3 || len(strings.Fields(trimmed)) < 2 {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, w := range tableHeaderWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// CleanName normalizes a model's reply into "FirstName LastName" form.
// Model output is unreliable: it may echo a preamble, keep OCR artifacts
// like dots between names, or ramble. Returns "" when no plausible name
// survives cleaning.
func CleanName(response string) string {
	s := strings.TrimSpace(response)
	s = namePrefixRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	// A long reply is an explanation, not a name. Salvage an embedded
	// "FirstName LastName" if one exists.
	if len(s) > 100 {
		m := embeddedNameRe.FindStringSubmatch(s)
		if m == nil {
			return ""
		}
		s = m[1]
	}

	s = artifactRe.ReplaceAllString(s, " ")
	s = specialCharRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = trailingIDRe.ReplaceAllString(s, "")

	if strings.EqualFold(s, "NOTFOUND") {
		return ""
	}

	words := strings.Fields(s)
	if len(words) < 2 || len(words) > 4 {
		return ""
	}
	for _, w := range words {
		first := rune(w[0])
		if first < 'A' || first > 'Z' {
			return ""
		}
	}
	return s
}
