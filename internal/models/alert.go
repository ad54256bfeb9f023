package models

import "time"

// Severity of a backend alert.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// AlertStatus is the backend lifecycle state of an alert.
type AlertStatus string

const (
	AlertActive       AlertStatus = "active"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
)

// Tone is the visual emphasis a display sink applies.
type Tone string

const (
	ToneNeutral  Tone = "neutral"
	ToneCaution  Tone = "caution"
	ToneDanger   Tone = "danger"
	TonePositive Tone = "positive"
)

// Tone maps severity onto display emphasis. Unknown values render neutral.
func (s Severity) Tone() Tone {
	switch s {
	case SeverityCritical:
		return ToneDanger
	case SeverityWarning:
		return ToneCaution
	default:
		return ToneNeutral
	}
}

// Alert is owned by the backend and treated as read-only here.
type Alert struct {
	ID          string      `json:"id"`
	AlertType   string      `json:"alert_type,omitempty"`
	Severity    Severity    `json:"severity"`
	Intent      string      `json:"intent"`
	RiskScore   float64     `json:"risk_score"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	Timestamp   time.Time   `json:"timestamp"`
	Status      AlertStatus `json:"status"`
}

// IsUrgent reports whether the alert gets urgent treatment. Only critical does.
func (a Alert) IsUrgent() bool {
	return a.Severity == SeverityCritical
}

// AlertFilter is applied by the backend at fetch time.
type AlertFilter struct {
	Status AlertStatus `json:"status,omitempty"`
	Limit  int         `json:"limit,omitempty"`
}
