// Package sampledata provides fixture sessions for tests: canned laps,
// telemetry traces and an in-memory provider implementation.
package sampledata

import (
	"context"
	"fmt"

	"github.com/aarondl/opt/null"

	"github.com/pitwall/pitwall/pkg/model"
	"github.com/pitwall/pitwall/pkg/provider"
)

func SampleKey() model.SessionKey {
	return model.SessionKey{
		Year:    2024,
		Circuit: "testring",
		Type:    model.SessionTypeRace,
	}
}

func SampleDriver() model.DriverInfo {
	return model.DriverInfo{ID: "44", Abbreviation: "HAM", FullName: "Lewis Hamilton"}
}

func OtherDriver() model.DriverInfo {
	return model.DriverInfo{ID: "1", Abbreviation: "VER", FullName: "Max Verstappen"}
}

// TimedLap builds a quick lap with all sectors present. The sector
// split is arbitrary but consistent so sector aggregations stay
// predictable.
func TimedLap(num int, lapTime float64) model.LapRecord {
	return model.LapRecord{
		LapNumber:   num,
		LapTime:     null.From(lapTime),
		Sector1Time: null.From(lapTime * 0.3),
		Sector2Time: null.From(lapTime * 0.4),
		Sector3Time: null.From(lapTime * 0.3),
		Compound:    model.CompoundSoft,
		TyreLife:    null.From(num),
		IsQuick:     true,
	}
}

// UntimedLap builds a lap without a duration (in/out lap, red flag).
func UntimedLap(num int) model.LapRecord {
	return model.LapRecord{
		LapNumber:   num,
		LapTime:     null.FromPtr[float64](nil),
		Sector1Time: null.FromPtr[float64](nil),
		Sector2Time: null.FromPtr[float64](nil),
		Sector3Time: null.FromPtr[float64](nil),
		Compound:    model.CompoundSoft,
		TyreLife:    null.From(num),
	}
}

// Sample builds one telemetry sample with sane defaults; tests tweak
// the channels they care about.
func Sample(distance, speed, throttle float64, brake bool, rpm int) model.TelemetrySample {
	return model.TelemetrySample{
		Distance: distance,
		Speed:    speed,
		Throttle: throttle,
		Brake:    brake,
		RPM:      rpm,
		Gear:     4,
		X:        null.FromPtr[float64](nil),
		Y:        null.FromPtr[float64](nil),
	}
}

// FlatOutTrace is n samples at constant full throttle, no brake.
func FlatOutTrace(n int) []model.TelemetrySample {
	samples := make([]model.TelemetrySample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples,
			Sample(float64(i*10), 300, 100, false, 11000))
	}
	return samples
}

// Session is an in-memory provider.Session for tests. All fields are
// settable; errors per driver can be injected via the Err* maps.
type Session struct {
	SessionKey model.SessionKey
	DriverList []model.DriverInfo
	LapsByID   map[string][]model.LapRecord
	// telemetry keyed by "driverID/lapNumber"
	TelemetryByKey map[string][]model.TelemetrySample
	CornerList     []model.Corner
	Colors         map[string]string

	ErrLaps      error
	ErrTelemetry error
	ErrCorners   error
	ErrColors    error

	TelemetryCalls int
	LapCalls       int
}

var _ provider.Session = (*Session)(nil)

func (s *Session) Key() model.SessionKey { return s.SessionKey }

func (s *Session) Drivers(ctx context.Context) ([]model.DriverInfo, error) {
	return s.DriverList, nil
}

func (s *Session) Laps(ctx context.Context, driverID string) ([]model.LapRecord, error) {
	s.LapCalls++
	if s.ErrLaps != nil {
		return nil, s.ErrLaps
	}
	return s.LapsByID[driverID], nil
}

func (s *Session) Telemetry(
	ctx context.Context, driverID string, lapNumber int,
) ([]model.TelemetrySample, error) {
	s.TelemetryCalls++
	if s.ErrTelemetry != nil {
		return nil, s.ErrTelemetry
	}
	return s.TelemetryByKey[TelemetryKey(driverID, lapNumber)], nil
}

func (s *Session) Corners(ctx context.Context) ([]model.Corner, error) {
	if s.ErrCorners != nil {
		return nil, s.ErrCorners
	}
	return s.CornerList, nil
}

func (s *Session) DriverColors(ctx context.Context) (map[string]string, error) {
	if s.ErrColors != nil {
		return nil, s.ErrColors
	}
	return s.Colors, nil
}

func TelemetryKey(driverID string, lapNumber int) string {
	return fmt.Sprintf("%s/%d", driverID, lapNumber)
}

// Provider is an in-memory provider.Provider serving the configured
// sessions by key.
type Provider struct {
	ByKey map[model.SessionKey]*Session
}

var _ provider.Provider = (*Provider)(nil)

func NewProvider(sessions ...*Session) *Provider {
	p := &Provider{ByKey: make(map[model.SessionKey]*Session)}
	for _, s := range sessions {
		p.ByKey[s.SessionKey] = s
	}
	return p
}

func (p *Provider) Sessions(ctx context.Context) ([]model.SessionKey, error) {
	keys := make([]model.SessionKey, 0, len(p.ByKey))
	for k := range p.ByKey {
		keys = append(keys, k)
	}
	return keys, nil
}

func (p *Provider) LoadSession(
	ctx context.Context, key model.SessionKey,
) (provider.Session, error) {
	s, ok := p.ByKey[key]
	if !ok {
		return nil, &provider.Error{Op: "load", Key: key, Err: provider.ErrSessionNotFound}
	}
	return s, nil
}

// SampleSession wires a complete two-driver session: driver 44 with
// timed laps and a fastest-lap trace, driver 1 without any laps.
func SampleSession() *Session {
	laps := []model.LapRecord{
		TimedLap(1, 90.100),
		TimedLap(2, 88.523),
		TimedLap(3, 91.000),
	}
	for i := range laps {
		laps[i].Driver = SampleDriver().ID
	}
	return &Session{
		SessionKey: SampleKey(),
		DriverList: []model.DriverInfo{OtherDriver(), SampleDriver()},
		LapsByID:   map[string][]model.LapRecord{SampleDriver().ID: laps},
		TelemetryByKey: map[string][]model.TelemetrySample{
			TelemetryKey(SampleDriver().ID, 2): FlatOutTrace(4),
		},
		CornerList: []model.Corner{{Number: 1, Distance: 12}},
		Colors:     map[string]string{SampleDriver().ID: "#00d2be"},
	}
}
