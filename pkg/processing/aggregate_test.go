//nolint:funlen // ok for tests
package processing

import (
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/pitwall/pitwall/pkg/model"
	"github.com/pitwall/pitwall/testsupport/sampledata"
)

func datasetWithLaps(laps ...model.LapRecord) *model.DriverDataset {
	return &model.DriverDataset{
		Driver:    sampledata.SampleDriver(),
		Laps:      laps,
		QuickLaps: laps,
	}
}

func TestEfficiencyScore(t *testing.T) {
	tests := []struct {
		name string
		ds   *model.DriverDataset
		want model.EfficiencyScore
	}{
		{
			name: "nil dataset",
			ds:   nil,
			want: model.EfficiencyScore{},
		},
		{
			name: "no telemetry",
			ds:   datasetWithLaps(sampledata.TimedLap(1, 90)),
			want: model.EfficiencyScore{},
		},
		{
			name: "flat out lap",
			ds: &model.DriverDataset{
				FastestLapTelemetry: sampledata.FlatOutTrace(5),
			},
			want: model.EfficiencyScore{Score: 100.0, Valid: true},
		},
		{
			name: "half the lap flat out",
			ds: &model.DriverDataset{
				FastestLapTelemetry: []model.TelemetrySample{
					sampledata.Sample(0, 300, 100, false, 11000),
					sampledata.Sample(10, 280, 80, false, 10000),
					sampledata.Sample(20, 290, 95, false, 10500),
					sampledata.Sample(30, 250, 60, true, 9000),
				},
			},
			want: model.EfficiencyScore{Score: 50.0, Valid: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EfficiencyScore(tt.ds)
			assert.Equal(t, tt.want.Valid, got.Valid)
			assert.InDelta(t, tt.want.Score, got.Score, 1e-9)
		})
	}
}

func TestSectorTimes_DropsIncompleteLaps(t *testing.T) {
	complete := sampledata.TimedLap(1, 90)
	partial := sampledata.TimedLap(2, 89)
	partial.Sector2Time = null.FromPtr[float64](nil)

	ds := datasetWithLaps(complete, partial)
	rows := SectorTimes(ds)

	assert.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].LapNumber)
	assert.InDelta(t, 27.0, rows[0].Sector1, 1e-9)
}

func TestSectorTimes_NilDataset(t *testing.T) {
	assert.Nil(t, SectorTimes(nil))
}

func TestLapTimeEvolution(t *testing.T) {
	ds := datasetWithLaps(
		sampledata.TimedLap(1, 90.100),
		sampledata.TimedLap(2, 88.523),
		sampledata.TimedLap(3, 91.000),
	)
	got := LapTimeEvolution(ds)

	assert.True(t, got.Valid)
	want := []model.LapTimeRow{
		{LapNumber: 1, LapTime: 90.100},
		{LapNumber: 2, LapTime: 88.523, Fastest: true},
		{LapNumber: 3, LapTime: 91.000},
	}
	if diff := cmp.Diff(want, got.Laps); diff != "" {
		t.Errorf("evolution rows not correct: %s", diff)
	}
	assert.InDelta(t, 89.874333333, got.Mean, 1e-6)
}

func TestLapTimeEvolution_SkipsUntimedLaps(t *testing.T) {
	ds := datasetWithLaps(
		sampledata.TimedLap(1, 90.0),
		sampledata.UntimedLap(2),
		sampledata.TimedLap(3, 89.0),
	)
	got := LapTimeEvolution(ds)

	assert.True(t, got.Valid)
	assert.Len(t, got.Laps, 2)
	assert.InDelta(t, 89.5, got.Mean, 1e-9)
}

func TestLapTimeEvolution_TieFlagsFirstOccurrence(t *testing.T) {
	ds := datasetWithLaps(
		sampledata.TimedLap(1, 89.0),
		sampledata.TimedLap(2, 89.0),
	)
	got := LapTimeEvolution(ds)

	assert.True(t, got.Laps[0].Fastest)
	assert.False(t, got.Laps[1].Fastest)
}

func TestLapTimeEvolution_NoTimedLaps(t *testing.T) {
	got := LapTimeEvolution(datasetWithLaps(sampledata.UntimedLap(1)))
	assert.False(t, got.Valid)
	assert.Empty(t, got.Laps)
}

func TestStintComparison_FastestCompoundFirst(t *testing.T) {
	var laps []model.LapRecord
	for i := 1; i <= 10; i++ {
		lap := sampledata.TimedLap(i, 90.5)
		lap.Compound = model.CompoundHard
		laps = append(laps, lap)
	}
	for i := 11; i <= 15; i++ {
		laps = append(laps, sampledata.TimedLap(i, 88.2))
	}

	rows := StintComparison(datasetWithLaps(laps...))

	want := []model.StintRow{
		{Compound: model.CompoundSoft, MeanLapTime: 88.2, LapCount: 5},
		{Compound: model.CompoundHard, MeanLapTime: 90.5, LapCount: 10},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("stint rows not correct: %s", diff)
	}
}

func TestStintComparison_IgnoresUnknownCompoundAndUntimed(t *testing.T) {
	unknown := sampledata.TimedLap(1, 88.0)
	unknown.Compound = model.CompoundUnknown

	rows := StintComparison(datasetWithLaps(
		unknown,
		sampledata.UntimedLap(2),
		sampledata.TimedLap(3, 90.0),
	))

	assert.Len(t, rows, 1)
	assert.Equal(t, model.CompoundSoft, rows[0].Compound)
	assert.Equal(t, 1, rows[0].LapCount)
}

func TestTyreAgeSeries_GroupsByCompound(t *testing.T) {
	soft := sampledata.TimedLap(1, 90)
	hard := sampledata.TimedLap(2, 91)
	hard.Compound = model.CompoundHard
	noLife := sampledata.TimedLap(3, 92)
	noLife.TyreLife = null.FromPtr[int](nil)

	groups := TyreAgeSeries(datasetWithLaps(soft, hard, noLife))

	want := []model.TyreAgeGroup{
		{Compound: model.CompoundSoft, Points: []model.TyreAgePoint{{LapNumber: 1, TyreLife: 1}}},
		{Compound: model.CompoundHard, Points: []model.TyreAgePoint{{LapNumber: 2, TyreLife: 2}}},
	}
	if diff := cmp.Diff(want, groups); diff != "" {
		t.Errorf("tyre age groups not correct: %s", diff)
	}
}

func TestAnalyze_NilDataset(t *testing.T) {
	res := Analyze(nil)

	assert.Empty(t, res.Masks.Coast)
	assert.InDelta(t, 0.0, res.CoastPercentage, 1e-9)
	assert.False(t, res.Efficiency.Valid)
	assert.False(t, res.Evolution.Valid)
	assert.Empty(t, res.SectorTimes)
	assert.Empty(t, res.Stints)
	assert.Empty(t, res.TyreAge)
}

func TestAnalyze_DoesNotMutateDataset(t *testing.T) {
	ds := datasetWithLaps(
		sampledata.TimedLap(3, 91.0),
		sampledata.TimedLap(1, 90.0),
		sampledata.TimedLap(2, 89.0),
	)
	ds.FastestLapTelemetry = sampledata.FlatOutTrace(4)

	lapOrder := func() []int {
		order := make([]int, 0, len(ds.Laps))
		for i := range ds.Laps {
			order = append(order, ds.Laps[i].LapNumber)
		}
		return order
	}
	before := lapOrder()

	first := Analyze(ds)
	second := Analyze(ds)

	if diff := cmp.Diff(before, lapOrder()); diff != "" {
		t.Errorf("dataset lap order mutated: %s", diff)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated analysis differs: %s", diff)
	}
}
