package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"intentguard/internal/logger"
	"intentguard/internal/models"
)

// Risk routing policy. Fixed; independent of backend-reported severity.
const (
	highRiskAbove      = 70
	mediumRiskAbove    = 40
	highRiskDurationMs = 5000
)

const sourceClassifier = "classifier"

var (
	ErrClassifyInFlight = errors.New("intent analysis already in progress")
	ErrNoSnapshot       = errors.New("no sensor snapshot available yet")
)

// RiskTier is the notification tier of a risk score.
type RiskTier int

const (
	RiskNormal RiskTier = iota
	RiskMedium
	RiskHigh
)

func (t RiskTier) String() string {
	switch t {
	case RiskHigh:
		return "high"
	case RiskMedium:
		return "medium"
	default:
		return "normal"
	}
}

// TierForScore is total: above 70 is high, above 40 is medium, everything else normal.
func TierForScore(score float64) RiskTier {
	switch {
	case score > highRiskAbove:
		return RiskHigh
	case score > mediumRiskAbove:
		return RiskMedium
	default:
		return RiskNormal
	}
}

// ClassificationNotification renders a classifier result for the operator.
// intent and recommendation are passed through verbatim.
func ClassificationNotification(res models.IntentResult) models.Notification {
	n := models.Notification{Description: res.Recommendation, Source: sourceClassifier}
	switch TierForScore(res.RiskScore) {
	case RiskHigh:
		n.Level = models.NotifyError
		n.Title = "High Risk Detected: " + res.Intent
		n.DurationMs = highRiskDurationMs
	case RiskMedium:
		n.Level = models.NotifyWarning
		n.Title = "Monitoring: " + res.Intent
	default:
		n.Level = models.NotifySuccess
		n.Title = "System Normal"
	}
	return n
}

// IntentAnalyzer is the backend classifier endpoint.
type IntentAnalyzer interface {
	AnalyzeIntent(ctx context.Context, req models.IntentRequest) (models.IntentResult, error)
}

// ClassifierGateway submits snapshots for scoring, one at a time.
type ClassifierGateway struct {
	analyzer IntentAnalyzer
	notifier Notifier
	log      *logger.Logger
	inFlight atomic.Bool
}

func NewClassifierGateway(analyzer IntentAnalyzer, notifier Notifier, log *logger.Logger) *ClassifierGateway {
	return &ClassifierGateway{analyzer: analyzer, notifier: notifier, log: log.Component("classifier")}
}

// InFlight reports whether a classification is outstanding.
func (g *ClassifierGateway) InFlight() bool { return g.inFlight.Load() }

// Classify scores snapshot and notifies the operator. A nil snapshot or an
// outstanding request makes it a no-op returning ErrNoSnapshot or
// ErrClassifyInFlight; no request is issued in either case.
func (g *ClassifierGateway) Classify(ctx context.Context, snapshot *models.SensorSnapshot) (models.IntentResult, error) {
	if snapshot == nil {
		return models.IntentResult{}, ErrNoSnapshot
	}
	if !g.inFlight.CompareAndSwap(false, true) {
		return models.IntentResult{}, ErrClassifyInFlight
	}
	defer g.inFlight.Store(false)

	res, err := g.analyzer.AnalyzeIntent(ctx, models.NewIntentRequest(*snapshot))
	if err != nil {
		g.log.Errorw("intent_analysis_failed", "err", err)
		g.notifier.Notify(ctx, models.Notification{
			Level:       models.NotifyError,
			Title:       "Analysis failed",
			Description: "Unable to analyze sensor data",
			Source:      sourceClassifier,
		})
		return models.IntentResult{}, fmt.Errorf("classify: %w", err)
	}

	g.log.Infow("intent_analyzed", "intent", res.Intent, "risk_score", res.RiskScore, "tier", TierForScore(res.RiskScore).String())
	g.notifier.Notify(ctx, ClassificationNotification(res))
	return res, nil
}
