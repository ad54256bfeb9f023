package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"intentguard/internal/config"
	"intentguard/internal/logger"
	"intentguard/internal/models"

	"golang.org/x/sync/errgroup"
)

// ViewKind names one monitoring view.
type ViewKind string

const (
	ViewDashboard   ViewKind = "dashboard"
	ViewDigitalTwin ViewKind = "digital_twin"
	ViewSummary     ViewKind = "summary"
)

var (
	ErrUnknownView = errors.New("unknown view")
	ErrViewMounted = errors.New("view already mounted")
)

// ParseViewKind accepts the wire names of the views.
func ParseViewKind(s string) (ViewKind, error) {
	switch k := ViewKind(s); k {
	case ViewDashboard, ViewDigitalTwin, ViewSummary:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// ViewSpec is the static shape of a view: what it polls and how often.
type ViewSpec struct {
	Kind            ViewKind           `json:"kind"`
	Interval        time.Duration      `json:"interval"`
	Feeds           Feed               `json:"-"`
	AlertFilter     models.AlertFilter `json:"alert_filter"`
	HistoryCapacity int                `json:"history_capacity"`
}

// ViewSpecs builds the three operator views from configuration.
func ViewSpecs(cfg config.Config) []ViewSpec {
	filter := func(vc config.ViewConfig) models.AlertFilter {
		return models.AlertFilter{Status: models.AlertStatus(vc.AlertStatus), Limit: vc.AlertLimit}
	}
	return []ViewSpec{
		{
			Kind:            ViewDashboard,
			Interval:        cfg.Views.Dashboard.Interval,
			Feeds:           FeedSensors | FeedAlerts | FeedTrains,
			AlertFilter:     filter(cfg.Views.Dashboard),
			HistoryCapacity: cfg.History.Capacity,
		},
		{
			Kind:        ViewDigitalTwin,
			Interval:    cfg.Views.DigitalTwin.Interval,
			Feeds:       FeedTracks | FeedAlerts,
			AlertFilter: filter(cfg.Views.DigitalTwin),
		},
		{
			Kind:        ViewSummary,
			Interval:    cfg.Views.Summary.Interval,
			Feeds:       FeedStats | FeedAlerts,
			AlertFilter: filter(cfg.Views.Summary),
		},
	}
}

// FeedSource is the read side of the backend.
type FeedSource interface {
	LatestSensors(ctx context.Context) (models.SensorSnapshot, error)
	Alerts(ctx context.Context, f models.AlertFilter) ([]models.Alert, error)
	Trains(ctx context.Context) ([]models.TrainStatus, error)
	Tracks(ctx context.Context) ([]models.Track, error)
	Stats(ctx context.Context) (models.DashboardStats, error)
}

// ViewSnapshot is a consistent read of a view for display sinks.
type ViewSnapshot struct {
	Kind          ViewKind               `json:"kind"`
	Mounted       bool                   `json:"mounted"`
	Loaded        bool                   `json:"loaded"`
	State         ViewState              `json:"state"`
	History       []models.HistoryPoint  `json:"history,omitempty"`
	AlertCount    int                    `json:"alert_count"`
	CriticalCount int                    `json:"critical_count"`
	TrackCounts   *models.TrackCounts    `json:"track_counts,omitempty"`
	TrackRisk     map[string]models.Tone `json:"track_risk,omitempty"` // track id -> risk tone
	Drone         models.DroneState      `json:"drone"`
}

// View is one monitoring-view session. It owns its poller, state and
// history; nothing is shared with other views.
type View struct {
	spec   ViewSpec
	source FeedSource
	poller *Poller
	log    *logger.Logger
	now    func() time.Time

	// seq tags each poll at issue time.
	seq atomic.Uint64

	mu      sync.RWMutex
	state   ViewState
	history *HistoryBuffer
	applied uint64
	mounted bool
	loaded  bool
	drone   models.DroneState
}

func NewView(spec ViewSpec, source FeedSource, log *logger.Logger) *View {
	return &View{
		spec:    spec,
		source:  source,
		poller:  NewPoller(string(spec.Kind), log),
		log:     log.Component("view"),
		now:     time.Now,
		history: NewHistoryBuffer(spec.HistoryCapacity),
	}
}

func (v *View) Spec() ViewSpec { return v.spec }

// Mount starts the session: history begins empty and polling starts at once.
func (v *View) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return fmt.Errorf("%s: %w", v.spec.Kind, ErrViewMounted)
	}
	v.mounted = true
	v.mu.Unlock()

	if err := v.poller.Start(ctx, v.spec.Interval, v.Refresh); err != nil {
		v.mu.Lock()
		v.mounted = false
		v.mu.Unlock()
		return err
	}
	v.log.Infow("view_mounted", "view", v.spec.Kind, "interval", v.spec.Interval)
	return nil
}

// Unmount stops polling and discards the session. Responses still in flight
// are dropped when they arrive.
func (v *View) Unmount() {
	v.poller.Stop()

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return
	}
	v.mounted = false
	v.loaded = false
	v.state = ViewState{}
	v.history.Reset()
	v.drone = models.DroneState{}
	v.applied = v.seq.Load()
	v.log.Infow("view_unmounted", "view", v.spec.Kind)
}

// Wait blocks until in-flight polls issued by the scheduler have returned.
func (v *View) Wait() { v.poller.Wait() }

// Refresh performs one full poll. Either every feed of the view is fetched
// and applied together, or the state is left untouched.
func (v *View) Refresh(ctx context.Context) error {
	seq := v.seq.Add(1)
	feeds, err := v.fetch(ctx)
	if err != nil {
		return fmt.Errorf("%s poll %d: %w", v.spec.Kind, seq, err)
	}
	v.apply(seq, feeds)
	return nil
}

func (v *View) fetch(ctx context.Context) (Feeds, error) {
	var out Feeds
	want := v.spec.Feeds
	g, gctx := errgroup.WithContext(ctx)

	if want.Has(FeedSensors) {
		g.Go(func() error {
			s, err := v.source.LatestSensors(gctx)
			out.Sensors = s
			return err
		})
	}
	if want.Has(FeedAlerts) {
		g.Go(func() error {
			a, err := v.source.Alerts(gctx, v.spec.AlertFilter)
			out.Alerts = a
			return err
		})
	}
	if want.Has(FeedTrains) {
		g.Go(func() error {
			t, err := v.source.Trains(gctx)
			out.Trains = t
			return err
		})
	}
	if want.Has(FeedTracks) {
		g.Go(func() error {
			t, err := v.source.Tracks(gctx)
			out.Tracks = t
			return err
		})
	}
	if want.Has(FeedStats) {
		g.Go(func() error {
			s, err := v.source.Stats(gctx)
			out.Stats = s
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return Feeds{}, err
	}
	out.Present = want
	out.FetchedAt = v.now()
	return out, nil
}

// apply installs a poll result. Results from before the last unmount or
// older than the last applied poll are dropped.
func (v *View) apply(seq uint64, f Feeds) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.mounted {
		v.log.Debugw("poll_dropped_unmounted", "view", v.spec.Kind, "seq", seq)
		return false
	}
	if seq <= v.applied {
		v.log.Debugw("poll_dropped_superseded", "view", v.spec.Kind, "seq", seq, "applied", v.applied)
		return false
	}

	v.state = ApplySnapshot(v.state, f)
	if p, ok := HistoryPointFor(f); ok {
		v.history.Push(p)
	}
	v.applied = seq
	v.loaded = true
	return true
}

// State returns the current view state.
func (v *View) State() ViewState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// History returns the rolling sensor history, oldest first.
func (v *View) History() []models.HistoryPoint {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.history.Points()
}

// Sensors returns the latest applied sensor snapshot, if any.
func (v *View) Sensors() (models.SensorSnapshot, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.state.Sensors == nil {
		return models.SensorSnapshot{}, false
	}
	return *v.state.Sensors, true
}

// AlertFeed returns the alerts of the last applied poll.
func (v *View) AlertFeed() AlertFeed {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return NewAlertFeed(v.spec.AlertFilter, v.state.Alerts)
}

// SetDroneActive flips the local drone indicator. It has no server side.
func (v *View) SetDroneActive(active bool) models.DroneState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.drone.Active = active
	return v.drone
}

func (v *View) Snapshot() ViewSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	feed := NewAlertFeed(v.spec.AlertFilter, v.state.Alerts)
	snap := ViewSnapshot{
		Kind:          v.spec.Kind,
		Mounted:       v.mounted,
		Loaded:        v.loaded,
		State:         v.state,
		AlertCount:    feed.Count(),
		CriticalCount: feed.Critical(),
		Drone:         v.drone,
	}
	if v.spec.Feeds.Has(FeedSensors) {
		snap.History = v.history.Points()
	}
	if v.spec.Feeds.Has(FeedTracks) {
		c := models.CountTracks(v.state.Tracks)
		snap.TrackCounts = &c
		snap.TrackRisk = make(map[string]models.Tone, len(v.state.Tracks))
		for _, t := range v.state.Tracks {
			snap.TrackRisk[t.ID] = models.RiskTone(t.RiskLevel)
		}
	}
	return snap
}
