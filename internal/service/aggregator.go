package service

import (
	"slices"
	"time"

	"intentguard/internal/models"
)

// Feed identifies one backend collection a view polls.
type Feed uint8

const (
	FeedSensors Feed = 1 << iota
	FeedAlerts
	FeedTrains
	FeedTracks
	FeedStats
)

// Has reports whether every feed in x is set in f.
func (f Feed) Has(x Feed) bool { return f&x == x }

// Feeds is the result of one fully successful poll. Only the collections
// flagged in Present are meaningful.
type Feeds struct {
	Present   Feed
	Sensors   models.SensorSnapshot
	Alerts    []models.Alert
	Trains    []models.TrainStatus
	Tracks    []models.Track
	Stats     models.DashboardStats
	FetchedAt time.Time
}

// ViewState is what renderers observe. Slices are replaced wholesale on every
// apply and never mutated in place, so a copy of ViewState may be read freely.
type ViewState struct {
	Sensors   *models.SensorSnapshot `json:"sensors,omitempty"`
	Alerts    []models.Alert         `json:"alerts"`
	Trains    []models.TrainStatus   `json:"trains,omitempty"`
	Tracks    []models.Track         `json:"tracks,omitempty"`
	Stats     *models.DashboardStats `json:"stats,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// ApplySnapshot returns the next view state: every present feed replaces the
// corresponding field of current, everything else is carried over. Sensor
// statuses are re-derived from their values. current is not modified.
func ApplySnapshot(current ViewState, incoming Feeds) ViewState {
	next := current
	if incoming.Present.Has(FeedSensors) {
		s := incoming.Sensors.Normalized()
		next.Sensors = &s
	}
	if incoming.Present.Has(FeedAlerts) {
		next.Alerts = cloneOrEmpty(incoming.Alerts)
	}
	if incoming.Present.Has(FeedTrains) {
		next.Trains = cloneOrEmpty(incoming.Trains)
	}
	if incoming.Present.Has(FeedTracks) {
		next.Tracks = cloneOrEmpty(incoming.Tracks)
	}
	if incoming.Present.Has(FeedStats) {
		st := incoming.Stats
		next.Stats = &st
	}
	next.UpdatedAt = incoming.FetchedAt
	return next
}

// HistoryPointFor derives the chart point of a poll; ok is false when the poll
// carried no sensor snapshot.
func HistoryPointFor(incoming Feeds) (models.HistoryPoint, bool) {
	if !incoming.Present.Has(FeedSensors) {
		return models.HistoryPoint{}, false
	}
	return models.NewHistoryPoint(incoming.Sensors, incoming.FetchedAt), true
}

func cloneOrEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}
