package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/model"
)

const (
	DefaultDisease    = "Analysis completed"
	DefaultConfidence = 85
	DefaultTreatment  = "See full recommendations below"
)

var (
	// **Label:** and **Label**: both occur in model output.
	markerRe = regexp.MustCompile(`\*\*\s*([A-Za-z][A-Za-z ]*?)\s*(?::\s*\*\*|\*\*\s*:)`)

	percentRe   = regexp.MustCompile(`\b(\d{1,3})(?:\.\d+)?\s*%`)
	bareNumRe   = regexp.MustCompile(`\b(\d{1,3})\b`)
	anyPercent  = regexp.MustCompile(`(\d+)%`)
	looseDisRe  = regexp.MustCompile(`(?i)disease[:\s]+([^\n.]+)`)
	looseTreaRe = regexp.MustCompile(`(?i)treatment[:\s]+([^\n]+)`)
)

// ParseStructuredAnswer extracts the detection fields from the model's
// free-text answer. Marker sections are tried first, then looser patterns,
// then defaults. Recommendations always carries the full text.
func ParseStructuredAnswer(text string) model.DiseaseResult {
	sections := markerSections(text)
	return model.DiseaseResult{
		Disease:         extractDisease(text, sections),
		Confidence:      extractConfidence(text, sections),
		Recommendations: text,
		Treatment:       extractTreatment(text, sections),
	}
}

// markerSections maps a lower-cased marker label to the text between it and
// the next marker. The first occurrence of a label wins.
func markerSections(text string) map[string]string {
	locs := markerRe.FindAllStringSubmatchIndex(text, -1)
	out := make(map[string]string, len(locs))
	for i, loc := range locs {
		label := strings.ToLower(strings.Join(strings.Fields(text[loc[2]:loc[3]]), " "))
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if _, ok := out[label]; !ok {
			out[label] = strings.TrimSpace(text[loc[1]:end])
		}
	}
	return out
}

func section(sections map[string]string, labels ...string) string {
	for _, l := range labels {
		if s, ok := sections[l]; ok && s != "" {
			return s
		}
	}
	return ""
}

func extractDisease(text string, sections map[string]string) string {
	if s := section(sections, "disease name", "disease"); s != "" {
		if line := firstLine(s); line != "" {
			return line
		}
	}
	if m := looseDisRe.FindStringSubmatch(text); m != nil {
		if v := cleanField(m[1]); v != "" {
			return v
		}
	}
	return DefaultDisease
}

func extractConfidence(text string, sections map[string]string) int {
	if s := section(sections, "confidence", "confidence level"); s != "" {
		if m := percentRe.FindStringSubmatch(s); m != nil {
			if n, ok := percent(m[1]); ok {
				return n
			}
		}
		if m := bareNumRe.FindStringSubmatch(firstLine(s)); m != nil {
			if n, ok := percent(m[1]); ok {
				return n
			}
		}
	}
	if m := anyPercent.FindStringSubmatch(text); m != nil {
		if n, ok := percent(m[1]); ok {
			return n
		}
	}
	return DefaultConfidence
}

func extractTreatment(text string, sections map[string]string) string {
	if s := section(sections, "treatment"); s != "" {
		return s
	}
	if m := looseTreaRe.FindStringSubmatch(text); m != nil {
		if v := cleanField(m[1]); v != "" {
			return v
		}
	}
	return DefaultTreatment
}

func percent(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return n, true
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if v := cleanField(line); v != "" {
			return v
		}
	}
	return ""
}

// cleanField strips list bullets and stray emphasis around a value.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "-•* ")
	s = strings.Trim(s, "* ")
	return strings.TrimSpace(s)
}
