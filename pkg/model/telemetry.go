package model

import "github.com/aarondl/opt/null"

// TelemetrySample is one point along a lap. Sequences are ordered by
// non-decreasing Distance; all derived masks are index-aligned to the
// sequence they were computed from.
type TelemetrySample struct {
	Distance float64           `json:"distance"` // meters from lap start
	Speed    float64           `json:"speed"`    // km/h
	Throttle float64           `json:"throttle"` // 0-100
	Brake    bool              `json:"brake"`
	RPM      int               `json:"rpm"`
	Gear     int               `json:"gear"`
	X        null.Val[float64] `json:"x"`
	Y        null.Val[float64] `json:"y"`
}

// EventMasks holds the per-sample behavioral event flags. Both masks
// have exactly the length of the telemetry they were derived from.
type EventMasks struct {
	Coast    []bool `json:"coast"`
	Traction []bool `json:"traction"`
}
