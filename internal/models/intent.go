package models

// IntentRequest is the classifier payload built from a sensor snapshot.
type IntentRequest struct {
	Vibration    float64 `json:"vibration"`
	SoundLevel   float64 `json:"sound_level"`
	Temperature  float64 `json:"temperature"`
	VisualMotion bool    `json:"visual_motion"`
}

// NewIntentRequest builds the payload from the snapshot's current values.
func NewIntentRequest(s SensorSnapshot) IntentRequest {
	return IntentRequest{
		Vibration:    s.Vibration.Value,
		SoundLevel:   s.Sound.Value,
		Temperature:  s.Temperature.Value,
		VisualMotion: s.Visual.MotionDetected,
	}
}

type IntentResult struct {
	Intent         string  `json:"intent"`
	RiskScore      float64 `json:"risk_score"`
	Confidence     float64 `json:"confidence,omitempty"`
	Recommendation string  `json:"recommendation"`
}
