package tui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"garmin-dashboard/internal/analysis"
)

// formatDate shows recent dates relative to now and older ones as a date
func formatDate(t, now time.Time) string {
	if t.IsZero() {
		return analysis.NotAvailable
	}
	if now.Sub(t) < 7*24*time.Hour && !t.After(now) {
		return humanize.RelTime(t, now, "ago", "from now")
	}
	return t.Format("Jan 02, 2006")
}

// formatSeconds renders a total like "3h 12m"
func formatSeconds(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// formatCount adds thousands separators, e.g. 12,480 steps
func formatCount(v *int) string {
	if v == nil {
		return analysis.NotAvailable
	}
	return humanize.Comma(int64(*v))
}

// formatKm renders a total distance with separators, e.g. "1,204.5 km"
func formatKm(v float64) string {
	return humanize.CommafWithDigits(v, 1) + " km"
}

func truncateName(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
