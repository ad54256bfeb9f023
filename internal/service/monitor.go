package service

import (
	"context"
	"fmt"

	"intentguard/internal/logger"
	"intentguard/internal/models"
)

// MonitorService owns the operator views and their lifecycles.
type MonitorService struct {
	views map[ViewKind]*View
	order []ViewKind
	log   *logger.Logger
}

func NewMonitorService(specs []ViewSpec, source FeedSource, log *logger.Logger) *MonitorService {
	m := &MonitorService{views: make(map[ViewKind]*View, len(specs)), log: log.Component("monitor")}
	for _, spec := range specs {
		m.views[spec.Kind] = NewView(spec, source, log)
		m.order = append(m.order, spec.Kind)
	}
	return m
}

// View returns the view of the given kind.
func (m *MonitorService) View(kind ViewKind) (*View, error) {
	v, ok := m.views[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, kind)
	}
	return v, nil
}

// Start mounts every view. A view that fails to mount unmounts the ones
// already started.
func (m *MonitorService) Start(ctx context.Context) error {
	for i, kind := range m.order {
		if err := m.views[kind].Mount(ctx); err != nil {
			for _, started := range m.order[:i] {
				m.views[started].Unmount()
			}
			return err
		}
	}
	return nil
}

// Stop unmounts every view and waits for their in-flight polls to drain.
func (m *MonitorService) Stop() {
	for _, kind := range m.order {
		m.views[kind].Unmount()
	}
	for _, kind := range m.order {
		m.views[kind].Wait()
	}
	m.log.Infow("monitor_stopped")
}

func (m *MonitorService) Specs() []ViewSpec {
	out := make([]ViewSpec, 0, len(m.order))
	for _, kind := range m.order {
		out = append(out, m.views[kind].Spec())
	}
	return out
}

func (m *MonitorService) Snapshot(kind ViewKind) (ViewSnapshot, error) {
	v, err := m.View(kind)
	if err != nil {
		return ViewSnapshot{}, err
	}
	return v.Snapshot(), nil
}

func (m *MonitorService) AlertFeed(kind ViewKind) (AlertFeed, error) {
	v, err := m.View(kind)
	if err != nil {
		return AlertFeed{}, err
	}
	return v.AlertFeed(), nil
}

func (m *MonitorService) History(kind ViewKind) ([]models.HistoryPoint, error) {
	v, err := m.View(kind)
	if err != nil {
		return nil, err
	}
	return v.History(), nil
}

func (m *MonitorService) Refresh(ctx context.Context, kind ViewKind) error {
	v, err := m.View(kind)
	if err != nil {
		return err
	}
	return v.Refresh(ctx)
}

func (m *MonitorService) SetDroneActive(kind ViewKind, active bool) (models.DroneState, error) {
	v, err := m.View(kind)
	if err != nil {
		return models.DroneState{}, err
	}
	return v.SetDroneActive(active), nil
}

// AnalysisService runs the classifier against the live dashboard snapshot.
type AnalysisService struct {
	gateway *ClassifierGateway
	source  *View
}

func NewAnalysisService(gateway *ClassifierGateway, source *View) *AnalysisService {
	return &AnalysisService{gateway: gateway, source: source}
}

// Analyze classifies the latest snapshot. Before the first successful poll
// it is a no-op returning ErrNoSnapshot.
func (a *AnalysisService) Analyze(ctx context.Context) (models.IntentResult, error) {
	var snap *models.SensorSnapshot
	if s, ok := a.source.Sensors(); ok {
		snap = &s
	}
	return a.gateway.Classify(ctx, snap)
}

func (a *AnalysisService) InFlight() bool { return a.gateway.InFlight() }
