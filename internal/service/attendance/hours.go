package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Anomaly messages stored on daily summaries.
const (
	AnomalyMissingClockOut  = "missing clock-out detected"
	AnomalyShortPunch       = "short punch"
	AnomalyExcessivePunches = "excessive punches"
	AnomalyNoValidPairs     = "no valid in-out pairs"
)

// AnomalyPolicy holds the tunable anomaly thresholds.
type AnomalyPolicy struct {
	ShortPunchThreshold time.Duration
	MaxPunchesPerDay    int
}

func DefaultAnomalyPolicy() AnomalyPolicy {
	return AnomalyPolicy{
		ShortPunchThreshold: 5 * time.Minute,
		MaxPunchesPerDay:    20,
	}
}

// HoursResult carries unrounded hour totals. Rounding happens only when a
// summary is persisted so that classification sees the exact values.
type HoursResult struct {
	GrossHours        float64
	EffectiveHours    float64
	BreakHours        float64
	Anomalies         []string
	IsAnomalyDetected bool
}

// CalculateHours derives gross, effective and break hours from a pairing and
// flags anomalies. rawPunchCount is the number of punches fed to the pairing.
func CalculateHours(pairing PairingResult, rawPunchCount int, policy AnomalyPolicy) HoursResult {
	var result HoursResult

	if n := len(pairing.Valid); n > 0 {
		result.GrossHours = pairing.Valid[n-1].OutTime.Sub(pairing.Valid[0].InTime).Hours()
		for _, pair := range pairing.Valid {
			result.EffectiveHours += pair.DurationHours
		}
		result.BreakHours = math.Max(0, result.GrossHours-result.EffectiveHours)
	}

	anomalies := make([]string, 0)
	if pairing.HasZeroDurationPair() {
		anomalies = append(anomalies, AnomalyMissingClockOut)
	}
	for _, pair := range pairing.Valid {
		if pair.OutTime.Sub(pair.InTime) < policy.ShortPunchThreshold {
			anomalies = append(anomalies, AnomalyShortPunch)
			break
		}
	}
	if policy.MaxPunchesPerDay > 0 && rawPunchCount > policy.MaxPunchesPerDay {
		anomalies = append(anomalies, AnomalyExcessivePunches)
	}
	if rawPunchCount > 0 && len(pairing.Valid) == 0 {
		anomalies = append(anomalies, AnomalyNoValidPairs)
	}

	result.Anomalies = anomalies
	result.IsAnomalyDetected = len(anomalies) > 0
	return result
}

// FormatHours renders hours as "Hh Mm".
func FormatHours(hours float64) string {
	h, m := splitHours(hours)
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatBreak renders hours as "H:MM".
func FormatBreak(hours float64) string {
	h, m := splitHours(hours)
	return fmt.Sprintf("%d:%02d", h, m)
}

func splitHours(hours float64) (int, int) {
	if hours <= 0 || math.IsNaN(hours) {
		return 0, 0
	}
	h := int(math.Floor(hours))
	m := int(math.Round((hours - float64(h)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	return h, m
}

// round2 rounds to two decimal places for storage.
func round2(hours float64) float64 {
	return decimal.NewFromFloat(hours).Round(2).InexactFloat64()
}
