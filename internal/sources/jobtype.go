package sources

import "strings"

// normalizeJobType collapses the loosely-normalized free-text job type
// ("Full-Time", "full_time", "fulltime") so each adapter can translate it
// into its provider's own enumeration.
func normalizeJobType(jobType string) string {
	replacer := strings.NewReplacer("-", "", "_", "", " ", "")
	return replacer.Replace(strings.ToLower(jobType))
}
