package models

import "time"

// TimerState tracks the lifecycle of a notification countdown
type TimerState string

const (
	TimerPending   TimerState = "Pending"   // Counting down
	TimerFired     TimerState = "Fired"     // Alert was delivered, terminal
	TimerCancelled TimerState = "Cancelled" // Event removed or rescheduled before firing, terminal
)

// Timer is the countdown the scheduler keeps for one event
type Timer struct {
	EventID  string
	FireAt   time.Time
	State    TimerState
	Schedule Schedule // Event fields FireAt was computed from
}

// Terminal returns true once the timer can no longer change state
func (t Timer) Terminal() bool {
	return t.State == TimerFired || t.State == TimerCancelled
}
