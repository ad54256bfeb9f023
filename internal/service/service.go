package service

import (
	"context"

	"intentguard/internal/backend"
	"intentguard/internal/config"
	"intentguard/internal/logger"
	"intentguard/internal/models"
	"intentguard/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Monitor exposes the operator views. Start/Stop own the polling lifecycle.
type Monitor interface {
	Start(ctx context.Context) error
	Stop()
	Specs() []ViewSpec
	Snapshot(kind ViewKind) (ViewSnapshot, error)
	AlertFeed(kind ViewKind) (AlertFeed, error)
	History(kind ViewKind) ([]models.HistoryPoint, error)
	Refresh(ctx context.Context, kind ViewKind) error
	SetDroneActive(kind ViewKind, active bool) (models.DroneState, error)
}

// Analysis runs on-demand intent classification.
type Analysis interface {
	Analyze(ctx context.Context) (models.IntentResult, error)
	InFlight() bool
}

// Commands issues actuation commands.
type Commands interface {
	HaltTrain(ctx context.Context, trainID string) error
	DispatchDrone(ctx context.Context, location, alertID string) (models.DroneDispatch, error)
	History(ctx context.Context, limit int) ([]models.CommandRecord, error)
}

// Notifications exposes the operator notification feed and log.
type Notifications interface {
	Recent(limit int) []models.Notification
	List(ctx context.Context, f NotificationFilter) ([]models.Notification, error)
}

// Service aggregates all sub-services.
type Service struct {
	Monitor
	Analysis
	Commands
	Notifications
	Authorization
}

// NewService wires the backend client and repositories into the services.
// publisher may be nil.
func NewService(cfg config.Config, repos *repository.Repository, client *backend.Client, publisher Publisher, log *logger.Logger) *Service {
	center := NewNotificationCenter(repos.Notifications, cfg.Notifications.Recent, log)
	if publisher != nil {
		center.WithPublisher(publisher, cfg.NATS.Subject)
	}

	monitor := NewMonitorService(ViewSpecs(cfg), client, log)
	dashboard, _ := monitor.View(ViewDashboard)

	return &Service{
		Monitor:       monitor,
		Analysis:      NewAnalysisService(NewClassifierGateway(client, center, log), dashboard),
		Commands:      NewCommandDispatcher(client, center, repos.Commands, dashboard, log),
		Notifications: center,
		Authorization: NewAuthService(repos.Operators, cfg.Auth),
	}
}
