package models

import "time"

type CommandKind string

const (
	CommandHaltTrain     CommandKind = "halt_train"
	CommandDispatchDrone CommandKind = "dispatch_drone"
)

type CommandOutcome string

const (
	CommandSucceeded CommandOutcome = "succeeded"
	CommandFailed    CommandOutcome = "failed"
)

// CommandRecord is one entry of the actuation audit log.
type CommandRecord struct {
	ID       string         `json:"id"`
	Kind     CommandKind    `json:"kind"`
	Target   string         `json:"target"`
	Outcome  CommandOutcome `json:"outcome"`
	Detail   string         `json:"detail,omitempty"`
	IssuedAt time.Time      `json:"issued_at"`
}
