package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0"},
		{999, "$999"},
		{1000, "$1,000"},
		{1234567, "$1,234,567"},
		{1234567.5, "$1,234,567.50"},
		{99.99, "$99.99"},
		{100.999, "$101"},
		{-2500, "-$2,500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.amount), "amount %v", tt.amount)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, time.June, 1, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, "0 hours ago", TimeAgo(now, now))
	assert.Equal(t, "1 hour ago", TimeAgo(now.Add(-90*time.Minute), now))
	assert.Equal(t, "5 hours ago", TimeAgo(now.Add(-5*time.Hour), now))
	// Future timestamps clamp to zero rather than going negative.
	assert.Equal(t, "0 hours ago", TimeAgo(now.Add(time.Hour), now))
}
