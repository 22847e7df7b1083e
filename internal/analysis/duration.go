package analysis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedDuration is returned when a duration string is not HH:MM:SS
var ErrMalformedDuration = errors.New("malformed duration")

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600

	// maxDurationSeconds bounds a parsed duration at 1000 hours
	maxDurationSeconds = 1000 * secondsPerHour
)

// Pace is a per-kilometer pace derived from a duration and a distance
type Pace struct {
	Minutes      int
	Seconds      int
	TotalSeconds float64 // seconds per km, unrounded
	Formatted    string  // "M:SS/km"
}

// ParseDuration converts "HH:MM:SS" into whole seconds.
// Fractional seconds ("00:30:00.750000") are truncated. Components or totals
// beyond 1000 hours are malformed.
func ParseDuration(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > maxDurationSeconds/secondsPerHour {
		return 0, fmt.Errorf("%w: bad hours in %q", ErrMalformedDuration, s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > maxDurationSeconds/secondsPerMinute {
		return 0, fmt.Errorf("%w: bad minutes in %q", ErrMalformedDuration, s)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || math.IsNaN(seconds) || seconds < 0 || seconds > maxDurationSeconds {
		return 0, fmt.Errorf("%w: bad seconds in %q", ErrMalformedDuration, s)
	}

	total := hours*secondsPerHour + minutes*secondsPerMinute + int(seconds)
	if total > maxDurationSeconds {
		return 0, fmt.Errorf("%w: %q is longer than 1000 hours", ErrMalformedDuration, s)
	}
	return total, nil
}

// FormatDuration formats whole seconds as zero-padded HH:MM:SS
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / secondsPerHour
	m := (seconds % secondsPerHour) / secondsPerMinute
	s := seconds % secondsPerMinute
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// durationSeconds returns the parsed duration, or false when absent or malformed
func durationSeconds(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	secs, err := ParseDuration(s)
	if err != nil {
		return 0, false
	}
	return secs, true
}

// DurationMinutes returns a duration in fractional minutes, 0 when it can't be parsed
func DurationMinutes(s string) float64 {
	secs, _ := durationSeconds(s)
	return float64(secs) / secondsPerMinute
}

// ComputePace returns the pace per km, or nil when the duration is missing or
// malformed or the distance is missing or not positive.
func ComputePace(duration string, distanceKm *float64) *Pace {
	if distanceKm == nil || !(*distanceKm > 0) {
		return nil
	}
	secs, ok := durationSeconds(duration)
	if !ok {
		return nil
	}

	paceSeconds := float64(secs) / *distanceKm
	minutes := int(math.Floor(paceSeconds / secondsPerMinute))
	// floor, not round, so a pace never shows ":60"
	seconds := int(math.Floor(math.Mod(paceSeconds, secondsPerMinute)))

	return &Pace{
		Minutes:      minutes,
		Seconds:      seconds,
		TotalSeconds: paceSeconds,
		Formatted:    fmt.Sprintf("%d:%02d/km", minutes, seconds),
	}
}

// FormatPace returns the formatted pace or "N/A"
func FormatPace(duration string, distanceKm *float64) string {
	if p := ComputePace(duration, distanceKm); p != nil {
		return p.Formatted
	}
	return NotAvailable
}

// TrimDuration drops any fractional seconds from a duration string
func TrimDuration(s string) string {
	if s == "" {
		return "00:00:00"
	}
	return strings.SplitN(s, ".", 2)[0]
}

// FormatElapsedTime re-pads each component of an HH:MM:SS string to two digits
// and drops fractional seconds. Strings that aren't three components are
// returned trimmed but otherwise untouched.
func FormatElapsedTime(s string) string {
	if s == "" {
		return "00:00:00"
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return TrimDuration(s)
	}
	parts[2] = strings.SplitN(parts[2], ".", 2)[0]
	for i, p := range parts {
		if len(p) < 2 {
			parts[i] = strings.Repeat("0", 2-len(p)) + p
		}
	}
	return strings.Join(parts, ":")
}
