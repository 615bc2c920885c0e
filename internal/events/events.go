package events

import "github.com/openjobs/jobscout/internal/models"

const SettingsChangedTopic = "settings:changed"

// SettingsChanged is published by the admin-config collaborator whenever
// scheduler settings are saved; the scheduler subscribes and re-arms.
type SettingsChanged struct {
	Settings models.SchedulerSettings
}
