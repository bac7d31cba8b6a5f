package store

import (
	"fyne.io/fyne/v2"
	"github.com/senaicurso/kalendria/pkg/models"
)

// ConfigStore handles configuration persistence using Fyne preferences
type ConfigStore struct {
	prefs fyne.Preferences
}

// NewConfigStore creates a new ConfigStore instance
func NewConfigStore(prefs fyne.Preferences) *ConfigStore {
	return &ConfigStore{prefs: prefs}
}

// Load loads configuration from preferences, falling back to defaults
func (cs *ConfigStore) Load() *models.Config {
	defaults := models.DefaultConfig()

	config := &models.Config{
		AutoStart:            cs.prefs.BoolWithFallback("auto_start", defaults.AutoStart),
		DefaultNotifyMinutes: cs.prefs.IntWithFallback("default_notify_minutes", defaults.DefaultNotifyMinutes),
		AlertDurationSeconds: cs.prefs.IntWithFallback("alert_duration_seconds", defaults.AlertDurationSeconds),
		QueueAlerts:          cs.prefs.BoolWithFallback("queue_alerts", defaults.QueueAlerts),
		SoundEnabled:         cs.prefs.BoolWithFallback("sound_enabled", defaults.SoundEnabled),
	}

	if config.DefaultNotifyMinutes < 0 {
		config.DefaultNotifyMinutes = 0
	}
	if config.AlertDurationSeconds <= 0 {
		config.AlertDurationSeconds = defaults.AlertDurationSeconds
	}

	return config
}

// Save saves configuration to preferences
func (cs *ConfigStore) Save(config *models.Config) {
	cs.prefs.SetBool("auto_start", config.AutoStart)
	cs.prefs.SetInt("default_notify_minutes", config.DefaultNotifyMinutes)
	cs.prefs.SetInt("alert_duration_seconds", config.AlertDurationSeconds)
	cs.prefs.SetBool("queue_alerts", config.QueueAlerts)
	cs.prefs.SetBool("sound_enabled", config.SoundEnabled)
}
