// Package frequency converts the period names used in leasing contracts to
// their length in days on a 360-day commercial year.
package frequency

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iwvelando/leasing-calc/pkg/constants"
)

// Named period lengths.
const (
	Daily        = 1
	Biweekly     = 15
	Monthly      = 30
	Bimonthly    = 60
	Quarterly    = 90
	FourMonthly  = 120
	SemiAnnually = 180
	Annually     = 360
)

var namedDays = map[string]int{
	"daily":         Daily,
	"biweekly":      Biweekly,
	"monthly":       Monthly,
	"bimonthly":     Bimonthly,
	"quarterly":     Quarterly,
	"four-monthly":  FourMonthly,
	"semi-annually": SemiAnnually,
	"annually":      Annually,
}

// ToDays resolves a frequency given either by name ("monthly") or as a
// positive integer number of days ("30").
func ToDays(value string) (int, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return 0, fmt.Errorf("frequency cannot be empty")
	}
	if days, ok := namedDays[trimmed]; ok {
		return days, nil
	}
	days, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("unknown frequency %q, expected one of %s or a number of days",
			value, strings.Join(Names(), ", "))
	}
	if days <= 0 {
		return 0, fmt.Errorf("frequency must be a positive number of days, got %d", days)
	}
	return days, nil
}

// Name returns the canonical name for a period length, or the number of days
// when the length has no name.
func Name(days int) string {
	for name, d := range namedDays {
		if d == days {
			return name
		}
	}
	return strconv.Itoa(days)
}

// Names lists the accepted frequency names ordered by period length.
func Names() []string {
	names := make([]string, 0, len(namedDays))
	for name := range namedDays {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return namedDays[names[i]] < namedDays[names[j]]
	})
	return names
}

// PeriodsPerYear returns how many periods of the given length fit in the
// commercial year. The result is fractional for lengths that do not divide 360.
func PeriodsPerYear(days int) float64 {
	return float64(constants.DaysPerYear) / float64(days)
}
