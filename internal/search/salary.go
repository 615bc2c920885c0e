package search

import (
	"regexp"
	"strconv"
	"strings"
)

var salaryPattern = regexp.MustCompile(`(\d[\d,.]*)\s*([kK])?`)

// ExtractSalary pulls a best-effort numeric value out of a pre-formatted
// salary display string ("£40,000 - £60,000", "$95k", "Negotiable").
// Returns false when the string holds no number at all.
func ExtractSalary(display string) (float64, bool) {
	match := salaryPattern.FindStringSubmatch(display)
	if match == nil || match[1] == "" {
		return 0, false
	}

	raw := strings.ReplaceAll(match[1], ",", "")
	raw = strings.TrimSuffix(raw, ".")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}

	if match[2] != "" {
		value *= 1000
	}
	return value, true
}
