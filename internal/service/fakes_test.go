package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"intentguard/internal/models"
)

// fakeSource is an in-test FeedSource. Each call to LatestSensors pops the
// next scripted snapshot; gate, when set, blocks the call until released.
type fakeSource struct {
	mu        sync.Mutex
	sensors   []models.SensorSnapshot
	sensorErr error
	alerts    []models.Alert
	alertErr  error
	trains    []models.TrainStatus
	tracks    []models.Track
	stats     models.DashboardStats

	calls       map[string]int
	lastFilter  models.AlertFilter
	gates       []chan struct{}
	sensorIndex int
}

func newFakeSource() *fakeSource { return &fakeSource{calls: map[string]int{}} }

func (f *fakeSource) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeSource) LatestSensors(ctx context.Context) (models.SensorSnapshot, error) {
	f.mu.Lock()
	f.calls["sensors"]++
	var gate chan struct{}
	if len(f.gates) > 0 {
		gate, f.gates = f.gates[0], f.gates[1:]
	}
	var s models.SensorSnapshot
	if len(f.sensors) > 0 {
		i := f.sensorIndex
		if i >= len(f.sensors) {
			i = len(f.sensors) - 1
		}
		s = f.sensors[i]
		f.sensorIndex++
	}
	err := f.sensorErr
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return models.SensorSnapshot{}, ctx.Err()
		}
	}
	return s, err
}

func (f *fakeSource) Alerts(ctx context.Context, filter models.AlertFilter) ([]models.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["alerts"]++
	f.lastFilter = filter
	return f.alerts, f.alertErr
}

func (f *fakeSource) Trains(ctx context.Context) ([]models.TrainStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["trains"]++
	return f.trains, nil
}

func (f *fakeSource) Tracks(ctx context.Context) ([]models.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["tracks"]++
	return f.tracks, nil
}

func (f *fakeSource) Stats(ctx context.Context) (models.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["stats"]++
	return f.stats, nil
}

// recordingNotifier collects notifications in order.
type recordingNotifier struct {
	mu    sync.Mutex
	notes []models.Notification
}

func (r *recordingNotifier) Notify(ctx context.Context, n models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) all() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.notes...)
}

func snapshot(vib, sound, temp float64) models.SensorSnapshot {
	return models.SensorSnapshot{
		Vibration:   models.Reading{Value: vib},
		Sound:       models.Reading{Value: sound},
		Temperature: models.Reading{Value: temp},
	}
}

// eventually polls cond until it holds or the timeout elapses.
func eventually(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

var errBackendDown = errors.New("backend: connection refused")
