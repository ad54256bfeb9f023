package models

import "time"

// TrainState values reported by the backend.
type TrainState string

const (
	TrainRunning TrainState = "running"
	TrainHalted  TrainState = "halted"
	TrainStopped TrainState = "stopped"
)

type TrainStatus struct {
	TrainID    string     `json:"train_id"`
	Status     TrainState `json:"status"`
	Location   string     `json:"location"`
	Speed      float64    `json:"speed"`
	LastUpdate time.Time  `json:"last_update,omitempty"`
}

// HaltAck is the backend acknowledgment of a halt command.
type HaltAck struct {
	Success bool   `json:"success"`
	TrainID string `json:"train_id,omitempty"`
	Action  string `json:"action,omitempty"`
}

type DroneDispatchRequest struct {
	Location string `json:"location"`
	AlertID  string `json:"alert_id"`
}

// DroneDispatch carries the server-issued drone id and ETA in minutes.
type DroneDispatch struct {
	Success  bool   `json:"success"`
	DroneID  string `json:"drone_id"`
	ETA      int    `json:"eta"`
	Location string `json:"location,omitempty"`
	AlertID  string `json:"alert_id,omitempty"`
	Status   string `json:"status,omitempty"`
}

// DroneState is a purely local toggle; it is never sent to the backend.
type DroneState struct {
	Active bool `json:"active"`
}
