package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DurationUnavailable is the display value used when a provider omits duration.
const DurationUnavailable = "N/A"

var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// FormatMinutes renders a minute count as "<H>h <M>m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// FormatSeconds renders a second count as "<H>h <M>m", truncating partial minutes.
func FormatSeconds(seconds int) string {
	return FormatMinutes(seconds / 60)
}

// ParseISODuration converts an ISO-8601 duration such as "PT5H30M" into whole minutes.
func ParseISODuration(value string) (int, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	m := isoDurationPattern.FindStringSubmatch(normalized)
	if m == nil || normalized == "P" || normalized == "PT" {
		return 0, false
	}

	var minutes int
	if m[1] != "" {
		d, _ := strconv.Atoi(m[1])
		minutes += d * 24 * 60
	}
	if m[2] != "" {
		h, _ := strconv.Atoi(m[2])
		minutes += h * 60
	}
	if m[3] != "" {
		mm, _ := strconv.Atoi(m[3])
		minutes += mm
	}
	if m[4] != "" {
		s, _ := strconv.ParseFloat(m[4], 64)
		minutes += int(s) / 60
	}
	return minutes, true
}

// FormatISODuration converts an ISO-8601 duration into display form.
// Empty input yields DurationUnavailable; unparseable input is returned unchanged.
func FormatISODuration(value string) string {
	if strings.TrimSpace(value) == "" {
		return DurationUnavailable
	}
	minutes, ok := ParseISODuration(value)
	if !ok {
		return value
	}
	return FormatMinutes(minutes)
}
