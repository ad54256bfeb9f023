package service

import "intentguard/internal/models"

// AlertFeed is the read-only projection of the backend alert list. Filtering
// happened at fetch time; order is the backend's.
type AlertFeed struct {
	Filter models.AlertFilter `json:"filter"`
	Alerts []models.Alert     `json:"alerts"`
}

func NewAlertFeed(filter models.AlertFilter, alerts []models.Alert) AlertFeed {
	if alerts == nil {
		alerts = []models.Alert{}
	}
	return AlertFeed{Filter: filter, Alerts: alerts}
}

// Count is the size of the currently filtered set.
func (f AlertFeed) Count() int { return len(f.Alerts) }

// Critical counts the alerts rendered with urgent emphasis.
func (f AlertFeed) Critical() int {
	n := 0
	for _, a := range f.Alerts {
		if a.IsUrgent() {
			n++
		}
	}
	return n
}
