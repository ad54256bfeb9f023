package models

import (
	"math"
	"time"
)

// ReadingStatus is the band a sensor value falls into.
type ReadingStatus string

const (
	ReadingNormal  ReadingStatus = "normal"
	ReadingWarning ReadingStatus = "warning"
	ReadingAlert   ReadingStatus = "alert"
)

// Reading is a single sensor value with its unit and derived status.
type Reading struct {
	Value  float64       `json:"value"`
	Unit   string        `json:"unit"`
	Status ReadingStatus `json:"status"`
}

// VisualReading is the camera channel; it carries no numeric value.
type VisualReading struct {
	MotionDetected bool   `json:"motion_detected"`
	Status         string `json:"status"`
}

// SensorSnapshot is the latest reading of every trackside sensor.
type SensorSnapshot struct {
	Vibration   Reading       `json:"vibration"`
	Sound       Reading       `json:"sound"`
	Temperature Reading       `json:"temperature"`
	Visual      VisualReading `json:"visual"`
	Timestamp   time.Time     `json:"timestamp"`
}

// SensorBand holds the thresholds a value is classified against.
// A value below WarnAt is normal, below AlertAt is warning, otherwise alert.
type SensorBand struct {
	Unit    string
	WarnAt  float64
	AlertAt float64
}

// Fixed bands per sensor type.
var (
	VibrationBand   = SensorBand{Unit: "g", WarnAt: 5, AlertAt: 10}
	SoundBand       = SensorBand{Unit: "dB", WarnAt: 80, AlertAt: 80}
	TemperatureBand = SensorBand{Unit: "°C", WarnAt: 35, AlertAt: math.Inf(1)}
)

// Classify maps a value onto the band.
func (b SensorBand) Classify(v float64) ReadingStatus {
	switch {
	case v >= b.AlertAt:
		return ReadingAlert
	case v >= b.WarnAt:
		return ReadingWarning
	default:
		return ReadingNormal
	}
}

// Normalized returns a copy whose statuses are re-derived from the values.
// Empty units are filled from the band.
func (s SensorSnapshot) Normalized() SensorSnapshot {
	s.Vibration = normalizeReading(s.Vibration, VibrationBand)
	s.Sound = normalizeReading(s.Sound, SoundBand)
	s.Temperature = normalizeReading(s.Temperature, TemperatureBand)
	return s
}

func normalizeReading(r Reading, b SensorBand) Reading {
	r.Status = b.Classify(r.Value)
	if r.Unit == "" {
		r.Unit = b.Unit
	}
	return r
}

// HistoryPoint is the chart projection of one sensor poll.
type HistoryPoint struct {
	Time      string  `json:"time"`
	Vibration float64 `json:"vibration"`
	Sound     float64 `json:"sound"`
	Temp      float64 `json:"temp"`
}

// historyTimeLayout matches the wall-clock label shown on the charts.
const historyTimeLayout = "15:04:05"

// NewHistoryPoint projects a snapshot observed at the given time.
func NewHistoryPoint(s SensorSnapshot, at time.Time) HistoryPoint {
	return HistoryPoint{
		Time:      at.Format(historyTimeLayout),
		Vibration: s.Vibration.Value,
		Sound:     s.Sound.Value,
		Temp:      s.Temperature.Value,
	}
}
