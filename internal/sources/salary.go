package sources

import (
	"fmt"

	"github.com/openjobs/jobscout/internal/models"
)

// salaryRange renders a provider's numeric min/max pair as a display
// string. Providers frequently omit one or both bounds; an absent salary
// must never leak through as "$0" or an empty string.
func salaryRange(min, max float64, currency string) string {
	if currency == "" {
		currency = "$"
	}
	switch {
	case min > 0 && max > 0 && min != max:
		return fmt.Sprintf("%s%.0f - %s%.0f", currency, min, currency, max)
	case min > 0:
		return fmt.Sprintf("%s%.0f", currency, min)
	case max > 0:
		return fmt.Sprintf("Up to %s%.0f", currency, max)
	default:
		return models.DefaultSalary
	}
}
