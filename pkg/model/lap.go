package model

import (
	"strings"

	"github.com/aarondl/opt/null"
)

// Compound is the tyre type category of a lap.
type Compound string

const (
	CompoundSoft         Compound = "SOFT"
	CompoundMedium       Compound = "MEDIUM"
	CompoundHard         Compound = "HARD"
	CompoundIntermediate Compound = "INTERMEDIATE"
	CompoundWet          Compound = "WET"
	CompoundUnknown      Compound = "UNKNOWN"
)

// CompoundOrder lists the known compounds in their canonical display
// order (dry compounds softest first, then rain tyres).
var CompoundOrder = []Compound{
	CompoundSoft,
	CompoundMedium,
	CompoundHard,
	CompoundIntermediate,
	CompoundWet,
}

// ParseCompound maps a provider compound string onto the enum. Anything
// unrecognized becomes CompoundUnknown.
func ParseCompound(arg string) Compound {
	switch Compound(strings.ToUpper(strings.TrimSpace(arg))) {
	case CompoundSoft:
		return CompoundSoft
	case CompoundMedium:
		return CompoundMedium
	case CompoundHard:
		return CompoundHard
	case CompoundIntermediate:
		return CompoundIntermediate
	case CompoundWet:
		return CompoundWet
	default:
		return CompoundUnknown
	}
}

// Known reports whether the compound carries usable information.
func (c Compound) Known() bool {
	return c != CompoundUnknown && c != ""
}

// LapRecord is one row of the session lap table for a single driver.
// Durations are seconds; every duration and the tyre life may be absent
// independently of the others.
type LapRecord struct {
	Driver      string            `json:"driver"`
	LapNumber   int               `json:"lapNumber"`
	LapTime     null.Val[float64] `json:"lapTime"`
	Sector1Time null.Val[float64] `json:"sector1Time"`
	Sector2Time null.Val[float64] `json:"sector2Time"`
	Sector3Time null.Val[float64] `json:"sector3Time"`
	Compound    Compound          `json:"compound"`
	TyreLife    null.Val[int]     `json:"tyreLife"`
	// IsQuick is the provider's representative-lap flag (excludes in/out
	// laps, safety car laps and the like). It is taken as-is, never
	// re-derived.
	IsQuick bool `json:"isQuick"`
}

// HasAllSectors reports whether all three sector durations are present.
func (l *LapRecord) HasAllSectors() bool {
	return l.Sector1Time.IsValue() && l.Sector2Time.IsValue() && l.Sector3Time.IsValue()
}
