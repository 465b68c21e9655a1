package model

import (
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/stretchr/testify/assert"
)

func TestParseCompound(t *testing.T) {
	tests := []struct {
		arg  string
		want Compound
	}{
		{arg: "SOFT", want: CompoundSoft},
		{arg: "soft", want: CompoundSoft},
		{arg: " Medium ", want: CompoundMedium},
		{arg: "HARD", want: CompoundHard},
		{arg: "INTERMEDIATE", want: CompoundIntermediate},
		{arg: "WET", want: CompoundWet},
		{arg: "", want: CompoundUnknown},
		{arg: "TEST", want: CompoundUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCompound(tt.arg))
		})
	}
}

func TestCompound_Known(t *testing.T) {
	assert.True(t, CompoundSoft.Known())
	assert.False(t, CompoundUnknown.Known())
	assert.False(t, Compound("").Known())
}

func TestLapRecord_HasAllSectors(t *testing.T) {
	lap := LapRecord{
		Sector1Time: null.From(27.0),
		Sector2Time: null.From(35.0),
		Sector3Time: null.From(26.0),
	}
	assert.True(t, lap.HasAllSectors())

	lap.Sector2Time = null.FromPtr[float64](nil)
	assert.False(t, lap.HasAllSectors())
}
