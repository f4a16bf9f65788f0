package registry

import (
	"strconv"
	"strings"
	"time"
)

// Day is the unit of the hide-after threshold
const Day = 24 * time.Hour

// HideAfter suppresses completed projects whose deadline is more than Days
// days in the past. The zero value hides nothing.
type HideAfter struct {
	Days    int
	Enabled bool
}

// ParseHideAfter reads the settings value. Empty, non-numeric and negative
// values disable the filter.
func ParseHideAfter(raw string) HideAfter {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || days < 0 {
		return HideAfter{}
	}
	return HideAfter{Days: days, Enabled: true}
}

// Cutoff returns the instant before which deadlines are hidden
func (h HideAfter) Cutoff(now time.Time) time.Time {
	return now.Add(-time.Duration(h.Days) * Day)
}

// Hides reports whether a project that ended at end should stay out of view
func (h HideAfter) Hides(end, now time.Time) bool {
	if !h.Enabled {
		return false
	}
	return end.Before(h.Cutoff(now))
}

// String returns the value as stored in the settings file
func (h HideAfter) String() string {
	if !h.Enabled {
		return ""
	}
	return strconv.Itoa(h.Days)
}
