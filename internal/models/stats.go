package models

// DashboardStats are the aggregate counters behind the summary view.
type DashboardStats struct {
	TotalAlerts             int     `json:"total_alerts"`
	ActiveAlerts            int     `json:"active_alerts"`
	CriticalAlerts          int     `json:"critical_alerts"`
	IncidentsPrevented      int     `json:"incidents_prevented"`
	SystemUptime            float64 `json:"system_uptime"`
	MonitoredTrackKm        float64 `json:"monitored_track_km"`
	ActiveTrains            int     `json:"active_trains"`
	SabotageAttemptsBlocked int     `json:"sabotage_attempts_blocked"`
	AverageResponseTime     float64 `json:"average_response_time"`
}
