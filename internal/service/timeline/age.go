package timeline

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// AgeLabel describes how old a subject born at birth was at t, e.g.
// "5 days old", "2 weeks, 3 days old", "4 months, 1 week old" or
// "1 year, 2 months old". Months count as 30 days and years as 365.
// It returns "" when t precedes birth.
func AgeLabel(birth, t time.Time) string {
	if t.Before(birth) {
		return ""
	}
	days := int(t.Sub(birth) / day)

	switch {
	case days < 7:
		return fmt.Sprintf("%s old", plural(days, "day"))
	case days < 30:
		weeks, rest := days/7, days%7
		if rest == 0 {
			return fmt.Sprintf("%s old", plural(weeks, "week"))
		}
		return fmt.Sprintf("%s, %s old", plural(weeks, "week"), plural(rest, "day"))
	case days < 365:
		months, weeks := days/30, days%30/7
		if weeks == 0 {
			return fmt.Sprintf("%s old", plural(months, "month"))
		}
		return fmt.Sprintf("%s, %s old", plural(months, "month"), plural(weeks, "week"))
	default:
		years, months := days/365, days%365/30
		if months == 0 {
			return fmt.Sprintf("%s old", plural(years, "year"))
		}
		return fmt.Sprintf("%s, %s old", plural(years, "year"), plural(months, "month"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
