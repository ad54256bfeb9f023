package service

import "time"

// NotificationFilter narrows the persisted notification log.
type NotificationFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Level string    // "", "success", "info", "warning", "error"
}
