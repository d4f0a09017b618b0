package timeline

import (
	"testing"
	"time"
)

func TestAgeLabel(t *testing.T) {
	t.Parallel()

	days := func(n int) time.Time { return birth.Add(time.Duration(n) * day) }

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{name: "birth day", at: birth, want: "0 days old"},
		{name: "one day", at: days(1), want: "1 day old"},
		{name: "partial day rounds down", at: days(1).Add(23 * time.Hour), want: "1 day old"},
		{name: "six days", at: days(6), want: "6 days old"},
		{name: "one week", at: days(7), want: "1 week old"},
		{name: "weeks and days", at: days(10), want: "1 week, 3 days old"},
		{name: "four weeks", at: days(29), want: "4 weeks, 1 day old"},
		{name: "one month", at: days(30), want: "1 month old"},
		{name: "months and weeks", at: days(45), want: "1 month, 2 weeks old"},
		{name: "last day of first year", at: days(364), want: "12 months old"},
		{name: "one year", at: days(365), want: "1 year old"},
		{name: "years and months", at: days(365 + 61), want: "1 year, 2 months old"},
		{name: "before birth", at: birth.Add(-time.Hour), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := AgeLabel(birth, tt.at); got != tt.want {
				t.Errorf("AgeLabel(+%s) = %q, want %q", tt.at.Sub(birth), got, tt.want)
			}
		})
	}
}
