package models

import "time"

// AlertMessage is a notification shown to the user
type AlertMessage struct {
	Text      string
	CreatedAt time.Time
}
