package util

import (
	"fmt"
	"time"
)

// FormatMinutes renders a duration as "1h 23m" / "23m" for chat output.
// Sub-minute remainders round down, matching how Mudae reports its timers.
func FormatMinutes(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d / time.Minute)
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}
