package stats

import (
	"fmt"
	"math"
	"time"
)

// LastMonthWindow returns the previous full calendar month as
// [first day 00:00:00, last day 23:59:59].
func LastMonthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), 0, 23, 59, 59, 0, now.Location())
	return start, end
}

// ThisMonthWindow returns the current calendar month as
// [first day 00:00:00, last day 23:59:59].
func ThisMonthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month()+1, 0, 23, 59, 59, 0, now.Location())
	return start, end
}

// YearWindow returns [Jan 1 00:00:00, Dec 31 23:59:59] of the given year
func YearWindow(year int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, time.December, 31, 23, 59, 59, 999999999, loc)
	return start, end
}

// FormatGrowth renders a month-over-month growth percentage. A zero prior
// count reports "0%" rather than dividing by zero; positive growth carries
// an explicit "+" sign.
func FormatGrowth(current, prior int64) string {
	if prior <= 0 {
		return "0%"
	}
	percent := int(math.Round(float64(current-prior) / float64(prior) * 100))
	if percent > 0 {
		return fmt.Sprintf("+%d%%", percent)
	}
	return fmt.Sprintf("%d%%", percent)
}

// MonthCount is one slot of the yearly registration series
type MonthCount struct {
	Month        string `json:"month"`
	TotalTailors int64  `json:"totalTailors"`
}

// DenseMonthSeries expands sparse per-month counts (1-based month keys) into
// a complete 12-slot series, January through December, zero-filling gaps.
func DenseMonthSeries(counts map[int]int64) []MonthCount {
	series := make([]MonthCount, 0, 12)
	for m := time.January; m <= time.December; m++ {
		series = append(series, MonthCount{
			Month:        m.String(),
			TotalTailors: counts[int(m)],
		})
	}
	return series
}

// DayCount is one slot of a daily registration series
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DenseDaySeries expands sparse per-day counts (1-based day keys) into a
// complete series covering every day of the given month, zero-filling gaps.
func DenseDaySeries(year int, month time.Month, counts map[int]int64) []DayCount {
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	series := make([]DayCount, 0, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		series = append(series, DayCount{
			Date:  time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Count: counts[d],
		})
	}
	return series
}
