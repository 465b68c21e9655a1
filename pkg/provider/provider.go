// Package provider defines the boundary to the external session data
// source. The analytics core only ever sees these interfaces; fetching,
// parsing and validating raw provider formats happens behind them.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/pitwall/pitwall/pkg/model"
)

// ErrSessionNotFound is returned by LoadSession when the requested
// session does not exist in the source.
var ErrSessionNotFound = errors.New("session not found")

// Error marks a failed or unusable provider fetch. The controller
// surfaces it as "no session loaded"; it is distinct from a single
// computation's missing channel, which the core handles locally.
type Error struct {
	Op  string
	Key model.SessionKey
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Provider gives access to loadable sessions.
type Provider interface {
	// Sessions lists the session keys available in the source.
	Sessions(ctx context.Context) ([]model.SessionKey, error)
	// LoadSession makes one session's data available. A failure is
	// reported as *Error.
	LoadSession(ctx context.Context, key model.SessionKey) (Session, error)
}

// Session exposes one loaded session's lap table, telemetry and static
// circuit data. All methods are only usable after a successful load.
type Session interface {
	Key() model.SessionKey
	Drivers(ctx context.Context) ([]model.DriverInfo, error)
	// Laps returns the driver's laps in the lap table's natural order.
	Laps(ctx context.Context, driverID string) ([]model.LapRecord, error)
	// Telemetry returns the ordered sample sequence for one lap, sorted
	// by non-decreasing distance.
	Telemetry(ctx context.Context, driverID string, lapNumber int) ([]model.TelemetrySample, error)
	// Corners returns the static circuit corners ordered by distance.
	Corners(ctx context.Context) ([]model.Corner, error)
	// DriverColors returns the provider's driver display color
	// assignment, keyed by driver id or abbreviation.
	DriverColors(ctx context.Context) (map[string]string, error)
}
