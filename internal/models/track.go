package models

// LatLng is encoded as a [lat, lng] pair.
type LatLng [2]float64

func (p LatLng) Lat() float64 { return p[0] }
func (p LatLng) Lng() float64 { return p[1] }

// TrackStatus of a digital-twin segment.
type TrackStatus string

const (
	TrackSafe       TrackStatus = "safe"
	TrackMonitoring TrackStatus = "monitoring"
	TrackAlert      TrackStatus = "alert"
)

// Tone maps track status onto display emphasis.
func (s TrackStatus) Tone() Tone {
	switch s {
	case TrackSafe:
		return TonePositive
	case TrackMonitoring:
		return ToneCaution
	case TrackAlert:
		return ToneDanger
	default:
		return ToneNeutral
	}
}

type Track struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Start     LatLng      `json:"start"`
	End       LatLng      `json:"end"`
	Status    TrackStatus `json:"status"`
	RiskLevel float64     `json:"risk_level"`
}

// RiskTone buckets a 0-100 risk level: below 30 positive, below 70 caution, else danger.
func RiskTone(risk float64) Tone {
	switch {
	case risk < 30:
		return TonePositive
	case risk < 70:
		return ToneCaution
	default:
		return ToneDanger
	}
}

// TrackCounts tallies tracks per status.
type TrackCounts struct {
	Safe       int `json:"safe"`
	Monitoring int `json:"monitoring"`
	Alert      int `json:"alert"`
}

func CountTracks(tracks []Track) TrackCounts {
	var c TrackCounts
	for _, t := range tracks {
		switch t.Status {
		case TrackSafe:
			c.Safe++
		case TrackMonitoring:
			c.Monitoring++
		case TrackAlert:
			c.Alert++
		}
	}
	return c
}
