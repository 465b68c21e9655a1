package model

// EfficiencyScore is the share of full-throttle samples on the fastest
// lap. Valid is false when the telemetry or throttle channel was absent;
// in that case Score is 0.0 but must not be read as a measurement.
type EfficiencyScore struct {
	Score float64 `json:"score"` // 0..100, one decimal
	Valid bool    `json:"valid"`
}

// SectorTimeRow is one quick lap with all three sector durations present.
type SectorTimeRow struct {
	LapNumber int     `json:"lapNumber"`
	Sector1   float64 `json:"sector1"`
	Sector2   float64 `json:"sector2"`
	Sector3   float64 `json:"sector3"`
}

// LapTimeRow is one lap of the lap-time evolution series.
type LapTimeRow struct {
	LapNumber int     `json:"lapNumber"`
	LapTime   float64 `json:"lapTime"`
	Fastest   bool    `json:"fastest"`
}

// LapTimeEvolution is the (lap, duration) series over all laps with a
// duration, in lap-number order, with the fastest lap flagged and the
// arithmetic mean across the represented laps.
type LapTimeEvolution struct {
	Laps  []LapTimeRow `json:"laps"`
	Mean  float64      `json:"mean"`
	Valid bool         `json:"valid"`
}

// StintRow is the per-compound aggregate of the stint comparison.
type StintRow struct {
	Compound    Compound `json:"compound"`
	MeanLapTime float64  `json:"meanLapTime"`
	LapCount    int      `json:"lapCount"`
}

// TyreAgePoint is one lap of the tyre-age series.
type TyreAgePoint struct {
	LapNumber int `json:"lapNumber"`
	TyreLife  int `json:"tyreLife"`
}

// TyreAgeGroup is the pass-through grouping of tyre age by compound.
type TyreAgeGroup struct {
	Compound Compound       `json:"compound"`
	Points   []TyreAgePoint `json:"points"`
}

// DriverAnalysis bundles every derived signal for one driver selection.
// This is the complete hand-off to the rendering layer; unavailable
// computations carry their explicit validity flags or empty slices.
type DriverAnalysis struct {
	Driver          DriverInfo       `json:"driver"`
	Color           string           `json:"color"`
	Masks           EventMasks       `json:"masks"`
	CoastPercentage float64          `json:"coastPercentage"` // 0..100, one decimal
	Efficiency      EfficiencyScore  `json:"efficiency"`
	SectorTimes     []SectorTimeRow  `json:"sectorTimes"`
	Evolution       LapTimeEvolution `json:"evolution"`
	Stints          []StintRow       `json:"stints"`
	TyreAge         []TyreAgeGroup   `json:"tyreAge"`
}
