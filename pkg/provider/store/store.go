// Package store implements the session provider boundary on top of a
// local sqlite file. Session data gets into the store via the ingest
// command; the analytics core never talks to the database directly.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aarondl/opt/null"
	_ "modernc.org/sqlite"

	"github.com/pitwall/pitwall/log"
	"github.com/pitwall/pitwall/pkg/model"
	"github.com/pitwall/pitwall/pkg/provider"
)

type Store struct {
	db *sql.DB
	l  *log.Logger
}

type Option func(s *Store)

func WithLogger(arg *log.Logger) Option {
	return func(s *Store) {
		s.l = arg
	}
}

// New opens (and if necessary creates) the session store at path and
// runs pending schema migrations.
func New(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate session store: %w", err)
	}
	s := &Store{
		db: db,
		l:  log.Default().Named("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ provider.Provider = (*Store)(nil)

// Sessions lists the imported sessions, newest season first.
func (s *Store) Sessions(ctx context.Context) ([]model.SessionKey, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT year, circuit, session_type FROM session
		 ORDER BY year DESC, circuit, session_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []model.SessionKey
	for rows.Next() {
		var k model.SessionKey
		var sessionType string
		if err := rows.Scan(&k.Year, &k.Circuit, &sessionType); err != nil {
			return nil, err
		}
		k.Type = model.SessionType(sessionType)
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// LoadSession resolves a session key; a missing session is a provider
// error, not a missing-data condition.
func (s *Store) LoadSession(ctx context.Context, key model.SessionKey) (provider.Session, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM session WHERE year = ? AND circuit = ? AND session_type = ?`,
		key.Year, key.Circuit, string(key.Type)).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, &provider.Error{Op: "load", Key: key, Err: provider.ErrSessionNotFound}
	}
	if err != nil {
		return nil, &provider.Error{Op: "load", Key: key, Err: err}
	}
	s.l.Debug("session resolved", log.String("key", key.String()), log.Any("id", id))
	return &session{store: s, id: id, key: key}, nil
}

type session struct {
	store *Store
	id    int64
	key   model.SessionKey
}

var _ provider.Session = (*session)(nil)

func (se *session) Key() model.SessionKey { return se.key }

func (se *session) Drivers(ctx context.Context) ([]model.DriverInfo, error) {
	rows, err := se.store.db.QueryContext(ctx,
		`SELECT driver_id, abbreviation, full_name FROM driver
		 WHERE session_id = ? ORDER BY driver_id`, se.id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []model.DriverInfo
	for rows.Next() {
		var d model.DriverInfo
		if err := rows.Scan(&d.ID, &d.Abbreviation, &d.FullName); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

// Laps returns the driver's laps ordered by lap number; that order is
// the lap table's natural order for every downstream tie-break.
func (se *session) Laps(ctx context.Context, driverID string) ([]model.LapRecord, error) {
	rows, err := se.store.db.QueryContext(ctx,
		`SELECT lap_number, lap_time, sector1_time, sector2_time, sector3_time,
		        compound, tyre_life, is_quick
		 FROM lap WHERE session_id = ? AND driver_id = ?
		 ORDER BY lap_number`, se.id, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var laps []model.LapRecord
	for rows.Next() {
		var (
			lap                 model.LapRecord
			lapTime, s1, s2, s3 sql.NullFloat64
			compound            string
			tyreLife            sql.NullInt64
		)
		if err := rows.Scan(&lap.LapNumber, &lapTime, &s1, &s2, &s3,
			&compound, &tyreLife, &lap.IsQuick); err != nil {
			return nil, err
		}
		lap.Driver = driverID
		lap.LapTime = nullFloat(lapTime)
		lap.Sector1Time = nullFloat(s1)
		lap.Sector2Time = nullFloat(s2)
		lap.Sector3Time = nullFloat(s3)
		lap.Compound = model.ParseCompound(compound)
		if tyreLife.Valid {
			lap.TyreLife = null.From(int(tyreLife.Int64))
		} else {
			lap.TyreLife = null.FromPtr[int](nil)
		}
		laps = append(laps, lap)
	}
	return laps, rows.Err()
}

func (se *session) Telemetry(
	ctx context.Context, driverID string, lapNumber int,
) ([]model.TelemetrySample, error) {
	rows, err := se.store.db.QueryContext(ctx,
		`SELECT distance, speed, throttle, brake, rpm, gear, pos_x, pos_y
		 FROM telemetry
		 WHERE session_id = ? AND driver_id = ? AND lap_number = ?
		 ORDER BY seq`, se.id, driverID, lapNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []model.TelemetrySample
	for rows.Next() {
		var (
			s    model.TelemetrySample
			x, y sql.NullFloat64
		)
		if err := rows.Scan(&s.Distance, &s.Speed, &s.Throttle, &s.Brake,
			&s.RPM, &s.Gear, &x, &y); err != nil {
			return nil, err
		}
		s.X = nullFloat(x)
		s.Y = nullFloat(y)
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

func (se *session) Corners(ctx context.Context) ([]model.Corner, error) {
	rows, err := se.store.db.QueryContext(ctx,
		`SELECT number, distance FROM corner
		 WHERE session_id = ? ORDER BY distance`, se.id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var corners []model.Corner
	for rows.Next() {
		var c model.Corner
		if err := rows.Scan(&c.Number, &c.Distance); err != nil {
			return nil, err
		}
		corners = append(corners, c)
	}
	return corners, rows.Err()
}

func (se *session) DriverColors(ctx context.Context) (map[string]string, error) {
	rows, err := se.store.db.QueryContext(ctx,
		`SELECT driver_id, color FROM driver
		 WHERE session_id = ? AND color IS NOT NULL AND color <> ''`, se.id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colors := make(map[string]string)
	for rows.Next() {
		var id, color string
		if err := rows.Scan(&id, &color); err != nil {
			return nil, err
		}
		colors[id] = color
	}
	return colors, rows.Err()
}

func nullFloat(v sql.NullFloat64) null.Val[float64] {
	if v.Valid {
		return null.From(v.Float64)
	}
	return null.FromPtr[float64](nil)
}
