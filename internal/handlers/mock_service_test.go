package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"intentguard/internal/models"
	"intentguard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockMonitor struct {
	specs      []service.ViewSpec
	snap       service.ViewSnapshot
	snapErr    error
	feed       service.AlertFeed
	history    []models.HistoryPoint
	refreshErr error

	mu           sync.Mutex
	refreshCalls int
	lastKind     service.ViewKind
	lastDrone    *bool
}

func (m *mockMonitor) Start(ctx context.Context) error { return nil }
func (m *mockMonitor) Stop()                           {}
func (m *mockMonitor) Specs() []service.ViewSpec       { return m.specs }
func (m *mockMonitor) Snapshot(kind service.ViewKind) (service.ViewSnapshot, error) {
	m.mu.Lock()
	m.lastKind = kind
	m.mu.Unlock()
	snap := m.snap
	snap.Kind = kind
	return snap, m.snapErr
}
func (m *mockMonitor) AlertFeed(kind service.ViewKind) (service.AlertFeed, error) {
	return m.feed, nil
}
func (m *mockMonitor) History(kind service.ViewKind) ([]models.HistoryPoint, error) {
	return m.history, nil
}
func (m *mockMonitor) Refresh(ctx context.Context, kind service.ViewKind) error {
	m.mu.Lock()
	m.refreshCalls++
	m.lastKind = kind
	m.mu.Unlock()
	return m.refreshErr
}
func (m *mockMonitor) SetDroneActive(kind service.ViewKind, active bool) (models.DroneState, error) {
	m.lastDrone = &active
	return models.DroneState{Active: active}, nil
}

type mockAnalysis struct {
	res      models.IntentResult
	err      error
	inFlight bool
	calls    int
}

func (m *mockAnalysis) Analyze(ctx context.Context) (models.IntentResult, error) {
	m.calls++
	return m.res, m.err
}
func (m *mockAnalysis) InFlight() bool { return m.inFlight }

type mockCommands struct {
	haltErr     error
	dispatch    models.DroneDispatch
	dispatchErr error
	history     []models.CommandRecord
	historyErr  error

	lastTrain    string
	lastLocation string
	lastAlertID  string
	lastLimit    int
}

func (m *mockCommands) HaltTrain(ctx context.Context, trainID string) error {
	m.lastTrain = trainID
	return m.haltErr
}
func (m *mockCommands) DispatchDrone(ctx context.Context, location, alertID string) (models.DroneDispatch, error) {
	m.lastLocation = location
	m.lastAlertID = alertID
	return m.dispatch, m.dispatchErr
}
func (m *mockCommands) History(ctx context.Context, limit int) ([]models.CommandRecord, error) {
	m.lastLimit = limit
	return m.history, m.historyErr
}

type mockNotifications struct {
	mu         sync.Mutex
	recent     []models.Notification // newest first
	list       []models.Notification
	listErr    error
	lastFilter service.NotificationFilter
	lastLimit  int
}

func (m *mockNotifications) Recent(limit int) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	if limit > len(m.recent) {
		limit = len(m.recent)
	}
	out := make([]models.Notification, limit)
	copy(out, m.recent[:limit])
	return out
}
func (m *mockNotifications) List(ctx context.Context, f service.NotificationFilter) ([]models.Notification, error) {
	m.lastFilter = f
	return m.list, m.listErr
}

func (m *mockNotifications) push(n models.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recent = append([]models.Notification{n}, m.recent...)
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func newAuthedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
