//nolint:funlen // ok for tests
package processing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/pitwall/pitwall/pkg/model"
	"github.com/pitwall/pitwall/testsupport/sampledata"
)

func TestDetectEvents_EmptyInput(t *testing.T) {
	masks := DetectEvents(nil)
	assert.Empty(t, masks.Coast)
	assert.Empty(t, masks.Traction)
}

func TestDetectEvents_MaskLengths(t *testing.T) {
	samples := sampledata.FlatOutTrace(7)
	masks := DetectEvents(samples)
	assert.Len(t, masks.Coast, len(samples))
	assert.Len(t, masks.Traction, len(samples))
}

func TestDetectEvents_FirstSampleNeverFlagged(t *testing.T) {
	// first sample would trip both rules if derivatives were not
	// pinned to zero
	samples := []model.TelemetrySample{
		sampledata.Sample(0, 100, 60, false, 9000),
		sampledata.Sample(10, 100, 40, false, 9500),
	}
	masks := DetectEvents(samples)
	assert.False(t, masks.Coast[0])
	assert.False(t, masks.Traction[0])
}

func TestDetectEvents_Coast(t *testing.T) {
	tests := []struct {
		name string
		prev model.TelemetrySample
		cur  model.TelemetrySample
		want bool
	}{
		{
			name: "lift without brake",
			prev: sampledata.Sample(0, 280, 90, false, 10000),
			cur:  sampledata.Sample(10, 275, 70, false, 9800),
			want: true,
		},
		{
			name: "lift while braking",
			prev: sampledata.Sample(0, 280, 90, true, 10000),
			cur:  sampledata.Sample(10, 250, 70, true, 9500),
			want: false,
		},
		{
			name: "lift but still flat out",
			prev: sampledata.Sample(0, 280, 100, false, 10000),
			cur:  sampledata.Sample(10, 282, 97, false, 10100),
			want: false,
		},
		{
			name: "throttle increasing",
			prev: sampledata.Sample(0, 280, 60, false, 10000),
			cur:  sampledata.Sample(10, 285, 80, false, 10200),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			masks := DetectEvents([]model.TelemetrySample{tt.prev, tt.cur})
			assert.Equal(t, tt.want, masks.Coast[1])
		})
	}
}

func TestDetectEvents_Traction(t *testing.T) {
	tests := []struct {
		name string
		prev model.TelemetrySample
		cur  model.TelemetrySample
		want bool
	}{
		{
			name: "revs spike while speed stalls",
			prev: sampledata.Sample(0, 80, 90, false, 7000),
			cur:  sampledata.Sample(10, 80.5, 90, false, 7300),
			want: true,
		},
		{
			name: "revs spike at low throttle",
			prev: sampledata.Sample(0, 80, 40, false, 7000),
			cur:  sampledata.Sample(10, 80.5, 40, false, 7300),
			want: false,
		},
		{
			name: "revs spike with matching acceleration",
			prev: sampledata.Sample(0, 80, 90, false, 7000),
			cur:  sampledata.Sample(10, 85, 90, false, 7300),
			want: false,
		},
		{
			name: "revs climbing slowly",
			prev: sampledata.Sample(0, 80, 90, false, 7000),
			cur:  sampledata.Sample(10, 80.5, 90, false, 7150),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			masks := DetectEvents([]model.TelemetrySample{tt.prev, tt.cur})
			assert.Equal(t, tt.want, masks.Traction[1])
		})
	}
}

func TestDetectEvents_FlatOutNoCoast(t *testing.T) {
	masks := DetectEvents(sampledata.FlatOutTrace(10))
	want := make([]bool, 10)
	if diff := cmp.Diff(want, masks.Coast); diff != "" {
		t.Errorf("coast mask not correct: %s", diff)
	}
}

func TestDetectEvents_BrakeSuppressesCoast(t *testing.T) {
	samples := make([]model.TelemetrySample, 6)
	for i := range samples {
		// throttle decreasing every sample, but brake held throughout
		samples[i] = sampledata.Sample(float64(i*10), 200, 90-float64(i*10), true, 9000)
	}
	masks := DetectEvents(samples)
	want := make([]bool, len(samples))
	if diff := cmp.Diff(want, masks.Coast); diff != "" {
		t.Errorf("coast mask not correct: %s", diff)
	}
}

func TestCoastPercentage(t *testing.T) {
	tests := []struct {
		name string
		mask []bool
		want float64
	}{
		{name: "empty mask", mask: nil, want: 0.0},
		{name: "no flags", mask: []bool{false, false}, want: 0.0},
		{name: "all flags", mask: []bool{true, true}, want: 100.0},
		{name: "one of three", mask: []bool{true, false, false}, want: 33.3},
		{name: "two of three", mask: []bool{true, true, false}, want: 66.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CoastPercentage(tt.mask), 1e-9)
		})
	}
}
