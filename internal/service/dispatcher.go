package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"intentguard/internal/logger"
	"intentguard/internal/models"

	"github.com/google/uuid"
)

const sourceCommands = "commands"

var ErrInvalidCommand = errors.New("invalid command")

// Actuator is the command side of the backend.
type Actuator interface {
	HaltTrain(ctx context.Context, trainID string) (models.HaltAck, error)
	DispatchDrone(ctx context.Context, req models.DroneDispatchRequest) (models.DroneDispatch, error)
}

// Reconciler re-polls authoritative state after a command.
type Reconciler interface {
	Refresh(ctx context.Context) error
}

// CommandAudit records every issued command.
type CommandAudit interface {
	Record(ctx context.Context, rec models.CommandRecord) error
	Recent(ctx context.Context, limit int) ([]models.CommandRecord, error)
}

// CommandDispatcher issues actuation commands and reports the outcome to the
// operator. Failed commands are not retried.
type CommandDispatcher struct {
	actuator   Actuator
	notifier   Notifier
	audit      CommandAudit
	reconciler Reconciler
	log        *logger.Logger
	now        func() time.Time
}

// NewCommandDispatcher wires the dispatcher. reconciler is the view whose fleet
// list is refreshed after a halt; audit may be nil.
func NewCommandDispatcher(actuator Actuator, notifier Notifier, audit CommandAudit, reconciler Reconciler, log *logger.Logger) *CommandDispatcher {
	return &CommandDispatcher{
		actuator:   actuator,
		notifier:   notifier,
		audit:      audit,
		reconciler: reconciler,
		log:        log.Component("dispatcher"),
		now:        time.Now,
	}
}

// HaltTrain stops trainID. On success the fleet is re-polled exactly once;
// train status is never changed locally.
func (d *CommandDispatcher) HaltTrain(ctx context.Context, trainID string) error {
	trainID = strings.TrimSpace(trainID)
	if trainID == "" {
		return fmt.Errorf("%w: train id is required", ErrInvalidCommand)
	}

	if _, err := d.actuator.HaltTrain(ctx, trainID); err != nil {
		d.log.Errorw("halt_train_failed", "train_id", trainID, "err", err)
		d.record(ctx, models.CommandHaltTrain, trainID, models.CommandFailed, err.Error())
		d.notifier.Notify(ctx, models.Notification{
			Level:  models.NotifyError,
			Title:  "Failed to halt train",
			Source: sourceCommands,
		})
		return fmt.Errorf("halt train %s: %w", trainID, err)
	}

	d.log.Infow("train_halted", "train_id", trainID)
	d.record(ctx, models.CommandHaltTrain, trainID, models.CommandSucceeded, "")
	d.notifier.Notify(ctx, models.Notification{
		Level:       models.NotifySuccess,
		Title:       fmt.Sprintf("Train %s Halted", trainID),
		Description: "Emergency stop signal sent",
		Source:      sourceCommands,
	})

	if d.reconciler != nil {
		if err := d.reconciler.Refresh(ctx); err != nil {
			d.log.Warnw("halt_reconcile_failed", "train_id", trainID, "err", err)
		}
	}
	return nil
}

// DispatchDrone sends a drone to location for alertID. The returned drone id
// and ETA are surfaced verbatim; no local state is reconciled.
func (d *CommandDispatcher) DispatchDrone(ctx context.Context, location, alertID string) (models.DroneDispatch, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return models.DroneDispatch{}, fmt.Errorf("%w: location is required", ErrInvalidCommand)
	}

	res, err := d.actuator.DispatchDrone(ctx, models.DroneDispatchRequest{Location: location, AlertID: alertID})
	if err != nil {
		d.log.Errorw("drone_dispatch_failed", "location", location, "alert_id", alertID, "err", err)
		d.record(ctx, models.CommandDispatchDrone, location, models.CommandFailed, err.Error())
		d.notifier.Notify(ctx, models.Notification{
			Level:  models.NotifyError,
			Title:  "Drone dispatch failed",
			Source: sourceCommands,
		})
		return models.DroneDispatch{}, fmt.Errorf("dispatch drone: %w", err)
	}

	d.log.Infow("drone_dispatched", "drone_id", res.DroneID, "eta", res.ETA, "location", location)
	d.record(ctx, models.CommandDispatchDrone, location, models.CommandSucceeded, "drone "+res.DroneID)
	d.notifier.Notify(ctx, models.Notification{
		Level:       models.NotifySuccess,
		Title:       fmt.Sprintf("Drone %s Dispatched", res.DroneID),
		Description: fmt.Sprintf("ETA: %d minutes to %s", res.ETA, location),
		Source:      sourceCommands,
	})
	return res, nil
}

// History returns the most recent commands, newest first.
func (d *CommandDispatcher) History(ctx context.Context, limit int) ([]models.CommandRecord, error) {
	if d.audit == nil {
		return []models.CommandRecord{}, nil
	}
	return d.audit.Recent(ctx, limit)
}

func (d *CommandDispatcher) record(ctx context.Context, kind models.CommandKind, target string, outcome models.CommandOutcome, detail string) {
	if d.audit == nil {
		return
	}
	err := d.audit.Record(ctx, models.CommandRecord{
		ID:       uuid.NewString(),
		Kind:     kind,
		Target:   target,
		Outcome:  outcome,
		Detail:   detail,
		IssuedAt: d.now().UTC(),
	})
	if err != nil {
		d.log.Warnw("command_audit_failed", "kind", kind, "target", target, "err", err)
	}
}
