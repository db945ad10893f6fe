package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatCurrency renders an amount as a dollar string with digit grouping,
// e.g. 1234567.5 -> "$1,234,567.50". Whole amounts drop the cents.
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	whole := int64(amount)
	cents := int64((amount-float64(whole))*100 + 0.5)
	if cents == 100 {
		whole++
		cents = 0
	}

	grouped := groupDigits(whole)
	out := "$" + grouped
	if cents > 0 {
		out = fmt.Sprintf("$%s.%02d", grouped, cents)
	}
	if negative {
		out = "-" + out
	}
	return out
}

func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// TimeAgo renders a coarse "N hours ago" label for recent-activity lists
func TimeAgo(t, now time.Time) string {
	hours := int(now.Sub(t).Hours())
	if hours < 0 {
		hours = 0
	}
	if hours == 1 {
		return "1 hour ago"
	}
	return fmt.Sprintf("%d hours ago", hours)
}
