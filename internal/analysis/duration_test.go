package analysis

import (
	"errors"
	"testing"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00:00", 0, false},
		{"00:30:00", 1800, false},
		{"01:02:03", 3723, false},
		{"00:30:00.750000", 1800, false},
		{"00:00:59.999", 59, false},
		{"1:2:3", 3723, false},
		{"25:00:00", 90000, false},
		{" 00:01:00 ", 60, false},
		{"", 0, true},
		{"30:00", 0, true},
		{"00:00:00:00", 0, true},
		{"aa:00:00", 0, true},
		{"00:bb:00", 0, true},
		{"00:00:cc", 0, true},
		{"-1:00:00", 0, true},
		{"00:00:-5", 0, true},
		{"00:00:Inf", 0, true},
		{"00:00:NaN", 0, true},
		{"1000:00:00", 3600000, false},
		{"1000:00:01", 0, true},
		{"00:00:1e300", 0, true},
		{"9999999999999999:00:00", 0, true},
		{"00:99999999999:00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedDuration) {
					t.Errorf("ParseDuration(%q) error = %v, want ErrMalformedDuration", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDuration(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{3723, "01:02:03"},
		{86399, "23:59:59"},
		{360000, "100:00:00"},
		{-10, "00:00:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDurationRoundTrip(t *testing.T) {
	for s := 0; s < 86400; s++ {
		got, err := ParseDuration(FormatDuration(s))
		if err != nil {
			t.Fatalf("ParseDuration(FormatDuration(%d)) error: %v", s, err)
		}
		if got != s {
			t.Fatalf("ParseDuration(FormatDuration(%d)) = %d", s, got)
		}
	}
}

func TestComputePace(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		distance *float64
		want     string // "" means nil
	}{
		{"6 min/km", "00:30:00", floatPtr(5), "6:00/km"},
		{"5 min/km", "00:25:00", floatPtr(5), "5:00/km"},
		{"fractional", "00:25:30", floatPtr(5), "5:06/km"},
		{"seconds are floored", "00:10:00", floatPtr(3), "3:20/km"},
		{"never shows :60", "00:05:59", floatPtr(1.0), "5:59/km"},
		{"zero distance", "00:10:00", floatPtr(0), ""},
		{"negative distance", "00:10:00", floatPtr(-2), ""},
		{"nil distance", "00:10:00", nil, ""},
		{"empty duration", "", floatPtr(5), ""},
		{"malformed duration", "ten minutes", floatPtr(5), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePace(tt.duration, tt.distance)
			if tt.want == "" {
				if got != nil {
					t.Errorf("ComputePace(%q) = %+v, want nil", tt.duration, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ComputePace(%q) = nil, want %s", tt.duration, tt.want)
			}
			if got.Formatted != tt.want {
				t.Errorf("ComputePace(%q).Formatted = %q, want %q", tt.duration, got.Formatted, tt.want)
			}
			if got.Seconds < 0 || got.Seconds > 59 {
				t.Errorf("ComputePace(%q).Seconds = %d, out of range", tt.duration, got.Seconds)
			}
		})
	}
}

func TestFormatPace(t *testing.T) {
	if got := FormatPace("00:30:00", floatPtr(5)); got != "6:00/km" {
		t.Errorf("FormatPace = %q, want 6:00/km", got)
	}
	if got := FormatPace("00:30:00", nil); got != NotAvailable {
		t.Errorf("FormatPace without distance = %q, want %q", got, NotAvailable)
	}
}

func TestFormatElapsedTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00:30:00", "00:30:00"},
		{"0:5:7", "00:05:07"},
		{"01:02:03.456789", "01:02:03"},
		{"", "00:00:00"},
		{"12:34", "12:34"},
	}

	for _, tt := range tests {
		if got := FormatElapsedTime(tt.in); got != tt.want {
			t.Errorf("FormatElapsedTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrimDuration(t *testing.T) {
	if got := TrimDuration("00:45:12.500000"); got != "00:45:12" {
		t.Errorf("TrimDuration = %q, want 00:45:12", got)
	}
	if got := TrimDuration(""); got != "00:00:00" {
		t.Errorf("TrimDuration(\"\") = %q, want 00:00:00", got)
	}
}

func TestDurationMinutes(t *testing.T) {
	if got := DurationMinutes("01:30:00"); got != 90 {
		t.Errorf("DurationMinutes = %v, want 90", got)
	}
	if got := DurationMinutes("bogus"); got != 0 {
		t.Errorf("DurationMinutes(bogus) = %v, want 0", got)
	}
}
