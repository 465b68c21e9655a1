package processing

import (
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/pitwall/pitwall/pkg/model"
)

// The aggregations below all follow the same contract: they take the
// assembled dataset and return a typed result with explicit validity.
// Missing data (nil dataset, absent telemetry, absent columns) makes
// the single affected computation unavailable; it never raises and
// never blocks a sibling computation.

// EfficiencyScore is the share of full-throttle samples on the fastest
// lap, rounded to one decimal. Unavailable when the dataset or the
// fastest-lap telemetry is absent.
func EfficiencyScore(ds *model.DriverDataset) model.EfficiencyScore {
	if ds == nil || len(ds.FastestLapTelemetry) == 0 {
		return model.EfficiencyScore{}
	}
	full := lo.CountBy(ds.FastestLapTelemetry, func(s model.TelemetrySample) bool {
		return s.Throttle >= DefaultEventThresholds().FullThrottle
	})
	return model.EfficiencyScore{
		Score: roundPercentage(full, len(ds.FastestLapTelemetry)),
		Valid: true,
	}
}

// SectorTimes emits one row per quick lap with all three sector
// durations present. Laps missing any sector are dropped entirely; no
// zero-fill, no interpolation.
func SectorTimes(ds *model.DriverDataset) []model.SectorTimeRow {
	if ds == nil {
		return nil
	}
	complete := lo.Filter(ds.QuickLaps, func(l model.LapRecord, _ int) bool {
		return l.HasAllSectors()
	})
	return lo.Map(complete, func(l model.LapRecord, _ int) model.SectorTimeRow {
		return model.SectorTimeRow{
			LapNumber: l.LapNumber,
			Sector1:   l.Sector1Time.MustGet(),
			Sector2:   l.Sector2Time.MustGet(),
			Sector3:   l.Sector3Time.MustGet(),
		}
	})
}

// LapTimeEvolution emits (lap, duration) pairs in lap-number order over
// all laps with a duration, flags the minimum (first occurrence wins an
// exact tie) and reports the arithmetic mean across the represented
// laps.
func LapTimeEvolution(ds *model.DriverDataset) model.LapTimeEvolution {
	if ds == nil {
		return model.LapTimeEvolution{}
	}
	timed := lo.Filter(ds.Laps, func(l model.LapRecord, _ int) bool {
		return l.LapTime.IsValue()
	})
	if len(timed) == 0 {
		return model.LapTimeEvolution{}
	}
	rows := lo.Map(timed, func(l model.LapRecord, _ int) model.LapTimeRow {
		return model.LapTimeRow{LapNumber: l.LapNumber, LapTime: l.LapTime.MustGet()}
	})
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].LapNumber < rows[j].LapNumber
	})

	fastest := 0
	times := make([]float64, len(rows))
	for i := range rows {
		times[i] = rows[i].LapTime
		if rows[i].LapTime < rows[fastest].LapTime {
			fastest = i
		}
	}
	rows[fastest].Fastest = true

	return model.LapTimeEvolution{
		Laps:  rows,
		Mean:  stat.Mean(times, nil),
		Valid: true,
	}
}

// StintComparison groups laps with a duration and a known compound by
// compound and reports mean duration and lap count per compound, rows
// ascending by mean (fastest compound first). Compounds with no
// qualifying laps are omitted.
func StintComparison(ds *model.DriverDataset) []model.StintRow {
	if ds == nil {
		return nil
	}
	qualifying := lo.Filter(ds.Laps, func(l model.LapRecord, _ int) bool {
		return l.LapTime.IsValue() && l.Compound.Known()
	})
	byCompound := lo.GroupBy(qualifying, func(l model.LapRecord) model.Compound {
		return l.Compound
	})

	rows := make([]model.StintRow, 0, len(byCompound))
	// iterate the canonical compound order so equal means stay
	// deterministic after the sort
	for _, compound := range model.CompoundOrder {
		laps, ok := byCompound[compound]
		if !ok {
			continue
		}
		times := lo.Map(laps, func(l model.LapRecord, _ int) float64 {
			return l.LapTime.MustGet()
		})
		rows = append(rows, model.StintRow{
			Compound:    compound,
			MeanLapTime: stat.Mean(times, nil),
			LapCount:    len(laps),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MeanLapTime < rows[j].MeanLapTime
	})
	return rows
}

// TyreAgeSeries is the pass-through grouping of (lap, tyre life) by
// compound over laps where both are present, in canonical compound
// order for the rendering layer.
func TyreAgeSeries(ds *model.DriverDataset) []model.TyreAgeGroup {
	if ds == nil {
		return nil
	}
	qualifying := lo.Filter(ds.Laps, func(l model.LapRecord, _ int) bool {
		return l.TyreLife.IsValue() && l.Compound.Known()
	})
	byCompound := lo.GroupBy(qualifying, func(l model.LapRecord) model.Compound {
		return l.Compound
	})

	groups := make([]model.TyreAgeGroup, 0, len(byCompound))
	for _, compound := range model.CompoundOrder {
		laps, ok := byCompound[compound]
		if !ok {
			continue
		}
		points := lo.Map(laps, func(l model.LapRecord, _ int) model.TyreAgePoint {
			return model.TyreAgePoint{
				LapNumber: l.LapNumber,
				TyreLife:  l.TyreLife.MustGet(),
			}
		})
		groups = append(groups, model.TyreAgeGroup{Compound: compound, Points: points})
	}
	return groups
}

// Analyze runs every derived computation over one dataset and bundles
// the plain results for the rendering layer. A nil dataset yields a
// bundle with every computation at its unavailable state.
func Analyze(ds *model.DriverDataset) *model.DriverAnalysis {
	res := &model.DriverAnalysis{
		Masks: model.EventMasks{Coast: []bool{}, Traction: []bool{}},
	}
	if ds != nil {
		res.Driver = ds.Driver
		res.Color = ds.Color
		res.Masks = DetectEvents(ds.FastestLapTelemetry)
	}
	res.CoastPercentage = CoastPercentage(res.Masks.Coast)
	res.Efficiency = EfficiencyScore(ds)
	res.SectorTimes = SectorTimes(ds)
	res.Evolution = LapTimeEvolution(ds)
	res.Stints = StintComparison(ds)
	res.TyreAge = TyreAgeSeries(ds)
	return res
}
