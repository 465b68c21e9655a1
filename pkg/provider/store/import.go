package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pitwall/pitwall/log"
	"github.com/pitwall/pitwall/pkg/model"
)

// SessionDump is the JSON exchange format for importing one session
// into the store. It mirrors what the upstream exporter writes: the
// lap table per driver with the telemetry samples nested per lap.
type SessionDump struct {
	Year    int          `json:"year"`
	Circuit string       `json:"circuit"`
	Type    string       `json:"type"`
	Corners []CornerDump `json:"corners"`
	Drivers []DriverDump `json:"drivers"`
}

type CornerDump struct {
	Number   int     `json:"number"`
	Distance float64 `json:"distance"`
}

type DriverDump struct {
	ID           string    `json:"id"`
	Abbreviation string    `json:"abbreviation"`
	FullName     string    `json:"fullName"`
	Color        string    `json:"color"`
	Laps         []LapDump `json:"laps"`
}

type LapDump struct {
	LapNumber   int          `json:"lapNumber"`
	LapTime     *float64     `json:"lapTime"`
	Sector1Time *float64     `json:"sector1Time"`
	Sector2Time *float64     `json:"sector2Time"`
	Sector3Time *float64     `json:"sector3Time"`
	Compound    string       `json:"compound"`
	TyreLife    *int         `json:"tyreLife"`
	IsQuick     bool         `json:"isQuick"`
	Telemetry   []SampleDump `json:"telemetry"`
}

type SampleDump struct {
	Distance float64  `json:"distance"`
	Speed    float64  `json:"speed"`
	Throttle float64  `json:"throttle"`
	Brake    bool     `json:"brake"`
	RPM      int      `json:"rpm"`
	Gear     int      `json:"gear"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
}

// ReadDump decodes a session dump from r.
func ReadDump(r io.Reader) (*SessionDump, error) {
	var dump SessionDump
	dec := json.NewDecoder(r)
	if err := dec.Decode(&dump); err != nil {
		return nil, fmt.Errorf("decode session dump: %w", err)
	}
	if dump.Year == 0 || dump.Circuit == "" || dump.Type == "" {
		return nil, fmt.Errorf("session dump misses year/circuit/type")
	}
	return &dump, nil
}

// ImportSession writes one session dump into the store within a single
// transaction. An existing session with the same key is replaced.
func (s *Store) ImportSession(ctx context.Context, dump *SessionDump) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	//nolint:errcheck // rollback after commit is a no-op
	defer tx.Rollback()

	key := model.SessionKey{
		Year:    dump.Year,
		Circuit: dump.Circuit,
		Type:    model.SessionType(dump.Type),
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM session WHERE year = ? AND circuit = ? AND session_type = ?`,
		key.Year, key.Circuit, string(key.Type)); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO session (year, circuit, session_type) VALUES (?, ?, ?)`,
		key.Year, key.Circuit, string(key.Type))
	if err != nil {
		return err
	}
	sessionID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i := range dump.Corners {
		c := dump.Corners[i]
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO corner (session_id, number, distance) VALUES (?, ?, ?)`,
			sessionID, c.Number, c.Distance); err != nil {
			return err
		}
	}

	laps := 0
	for i := range dump.Drivers {
		d := dump.Drivers[i]
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO driver (session_id, driver_id, abbreviation, full_name, color)
			 VALUES (?, ?, ?, ?, ?)`,
			sessionID, d.ID, d.Abbreviation, d.FullName, nilIfEmpty(d.Color)); err != nil {
			return err
		}
		for j := range d.Laps {
			if err = importLap(ctx, tx, sessionID, d.ID, &d.Laps[j]); err != nil {
				return err
			}
			laps++
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	s.l.Info("session imported",
		log.String("key", key.String()),
		log.Int("drivers", len(dump.Drivers)),
		log.Int("laps", laps))
	return nil
}

func importLap(
	ctx context.Context, tx *sql.Tx, sessionID int64, driverID string, lap *LapDump,
) error {
	compound := string(model.ParseCompound(lap.Compound))
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO lap (session_id, driver_id, lap_number, lap_time,
		                  sector1_time, sector2_time, sector3_time,
		                  compound, tyre_life, is_quick)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, driverID, lap.LapNumber, lap.LapTime,
		lap.Sector1Time, lap.Sector2Time, lap.Sector3Time,
		compound, lap.TyreLife, lap.IsQuick); err != nil {
		return err
	}
	for seq := range lap.Telemetry {
		t := lap.Telemetry[seq]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO telemetry (session_id, driver_id, lap_number, seq,
			                        distance, speed, throttle, brake, rpm, gear, pos_x, pos_y)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sessionID, driverID, lap.LapNumber, seq,
			t.Distance, t.Speed, t.Throttle, t.Brake, t.RPM, t.Gear, t.X, t.Y); err != nil {
			return err
		}
	}
	return nil
}

func nilIfEmpty(arg string) any {
	if arg == "" {
		return nil
	}
	return arg
}
