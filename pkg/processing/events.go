package processing

import (
	"github.com/shopspring/decimal"

	"github.com/pitwall/pitwall/pkg/model"
)

// EventThresholds are the tunables of the behavioral event rules.
type EventThresholds struct {
	// FullThrottle is the throttle value treated as "flat out"; a
	// sample at or above it is never a lift.
	FullThrottle float64
	// TractionThrottle is the minimum throttle for a sample to count
	// as wheelspin (no meaningful spin without meaningful throttle).
	TractionThrottle float64
	// RPMRise is the per-sample RPM increase marking an engine speed
	// spike.
	RPMRise float64
	// SpeedStall is the per-sample speed delta (km/h) below which road
	// speed counts as stagnating.
	SpeedStall float64
}

func DefaultEventThresholds() EventThresholds {
	return EventThresholds{
		FullThrottle:     95,
		TractionThrottle: 50,
		RPMRise:          200,
		SpeedStall:       1,
	}
}

// DetectEvents derives the coast/lift and traction-loss masks from a
// telemetry sequence using the default thresholds. Pure function;
// empty input yields two empty masks.
func DetectEvents(samples []model.TelemetrySample) model.EventMasks {
	return DetectEventsWith(samples, DefaultEventThresholds())
}

// DetectEventsWith is DetectEvents with explicit thresholds. Both masks
// are computed in a single pass and are index-aligned with samples.
// Sample 0 is never flagged: its derivatives are defined as 0.
func DetectEventsWith(samples []model.TelemetrySample, th EventThresholds) model.EventMasks {
	masks := model.EventMasks{
		Coast:    make([]bool, len(samples)),
		Traction: make([]bool, len(samples)),
	}
	for i := 1; i < len(samples); i++ {
		prev := &samples[i-1]
		cur := &samples[i]

		// coast/lift: easing off the accelerator without braking
		dThrottle := cur.Throttle - prev.Throttle
		masks.Coast[i] = dThrottle < 0 &&
			cur.Throttle < th.FullThrottle &&
			!cur.Brake

		// traction loss: revs climbing while road speed stagnates
		// under meaningful throttle (wheelspin proxy)
		dRPM := float64(cur.RPM - prev.RPM)
		dSpeed := cur.Speed - prev.Speed
		masks.Traction[i] = dRPM > th.RPMRise &&
			dSpeed < th.SpeedStall &&
			cur.Throttle > th.TractionThrottle
	}
	return masks
}

// CoastPercentage summarizes a coast mask as the share of flagged
// samples, rounded to one decimal. 0.0 for an empty mask.
func CoastPercentage(mask []bool) float64 {
	if len(mask) == 0 {
		return 0.0
	}
	flagged := 0
	for _, v := range mask {
		if v {
			flagged++
		}
	}
	return roundPercentage(flagged, len(mask))
}

// roundPercentage computes round(100*count/total, 1) without float
// accumulation surprises.
func roundPercentage(count, total int) float64 {
	if total == 0 {
		return 0.0
	}
	pct := decimal.NewFromInt(int64(count)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(1)
	return pct.InexactFloat64()
}
