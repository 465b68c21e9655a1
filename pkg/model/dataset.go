package model

// DriverDataset consolidates everything the aggregations need for one
// driver of one session. It is assembled once per driver selection and
// replaced wholesale on the next selection or session reload; it must
// never outlive the SessionContext it references.
type DriverDataset struct {
	Driver DriverInfo `json:"driver"`
	Color  string     `json:"color"`
	// Laps is the full lap list in the lap table's natural order.
	Laps []LapRecord `json:"laps"`
	// FastestLap is the lap with the minimum total duration; ties are
	// broken by first occurrence in natural order. Nil when no lap has
	// a duration.
	FastestLap *LapRecord `json:"fastestLap"`
	// FastestLapTelemetry is the sample sequence of the fastest lap;
	// nil when the fastest lap is absent or has no telemetry.
	FastestLapTelemetry []TelemetrySample `json:"fastestLapTelemetry"`
	// QuickLaps is the subset flagged representative by the provider.
	QuickLaps []LapRecord `json:"quickLaps"`

	Context *SessionContext `json:"-"`
}
