package models

import "time"

// NotificationLevel drives how an operator-facing notification is shown.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyInfo    NotificationLevel = "info"
	NotifyWarning NotificationLevel = "warning"
	NotifyError   NotificationLevel = "error"
)

// Valid reports whether l is one of the known levels.
func (l NotificationLevel) Valid() bool {
	switch l {
	case NotifySuccess, NotifyInfo, NotifyWarning, NotifyError:
		return true
	}
	return false
}

// Notification is a transient operator message. DurationMs zero means the sink default.
type Notification struct {
	ID          string            `json:"id"`
	Level       NotificationLevel `json:"level"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	DurationMs  int               `json:"duration_ms,omitempty"`
	Source      string            `json:"source"`
	CreatedAt   time.Time         `json:"created_at"`
}
