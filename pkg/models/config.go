package models

import "time"

// Config holds application configuration
type Config struct {
	AutoStart            bool `json:"auto_start"`
	DefaultNotifyMinutes int  `json:"default_notify_minutes"` // prefilled in the new event form
	AlertDurationSeconds int  `json:"alert_duration_seconds"` // banner auto-dismiss
	QueueAlerts          bool `json:"queue_alerts"`           // show simultaneous alerts one after another
	SoundEnabled         bool `json:"sound_enabled"`
}

// DefaultConfig returns the settings used on first run
func DefaultConfig() *Config {
	return &Config{
		AutoStart:            false,
		DefaultNotifyMinutes: 10,
		AlertDurationSeconds: 5,
		QueueAlerts:          true,
		SoundEnabled:         true,
	}
}

// AlertDuration returns how long a banner stays visible
func (c *Config) AlertDuration() time.Duration {
	if c.AlertDurationSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.AlertDurationSeconds) * time.Second
}
