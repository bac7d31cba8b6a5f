package scheduler

import (
	"fmt"
	"time"
)

// FiredText replaces the countdown once a notification has been delivered
const FiredText = "⏰ Event time!"

// FormatRemaining renders a positive countdown as "{minutes}m {seconds}s",
// truncating toward zero.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int64(remaining / time.Second)
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// AlertText is the message shown when an event's notification fires
func AlertText(title string) string {
	return fmt.Sprintf("Reminder: \"%s\" is about to start!", title)
}
