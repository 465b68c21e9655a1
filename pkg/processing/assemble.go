package processing

import (
	"context"

	"github.com/samber/lo"

	"github.com/pitwall/pitwall/log"
	"github.com/pitwall/pitwall/pkg/model"
	"github.com/pitwall/pitwall/pkg/provider"
)

type Assembler struct {
	session provider.Session
	l       *log.Logger
}

type AssemblerOption func(a *Assembler)

func WithLogger(arg *log.Logger) AssemblerOption {
	return func(a *Assembler) {
		a.l = arg
	}
}

func NewAssembler(session provider.Session, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		session: session,
		l:       log.Default().Named("assemble"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds the driver's dataset in one pass: lap filter, fastest
// lap selection, fastest-lap telemetry fetch and quick-lap subset. It
// returns a nil dataset (and no error) when the driver has no laps.
// The result is meant to be cached per selection; none of the consumers
// trigger a re-fetch.
func (a *Assembler) Assemble(
	ctx context.Context,
	driver model.DriverInfo,
	sctx *model.SessionContext,
	selectionIdx int,
) (*model.DriverDataset, error) {
	laps, err := a.session.Laps(ctx, driver.ID)
	if err != nil {
		return nil, err
	}
	if len(laps) == 0 {
		a.l.Debug("driver has no laps", log.String("driver", driver.ID))
		return nil, nil
	}

	ds := &model.DriverDataset{
		Driver:    driver,
		Color:     sctx.ColorFor(driver, selectionIdx),
		Laps:      laps,
		QuickLaps: lo.Filter(laps, func(l model.LapRecord, _ int) bool { return l.IsQuick }),
		Context:   sctx,
	}
	ds.FastestLap = fastestLap(laps)

	if ds.FastestLap != nil {
		// absence of telemetry is not an error; the dependent
		// computations report themselves unavailable instead
		tel, telErr := a.session.Telemetry(ctx, driver.ID, ds.FastestLap.LapNumber)
		if telErr != nil {
			a.l.Warn("no telemetry for fastest lap",
				log.String("driver", driver.ID),
				log.Int("lap", ds.FastestLap.LapNumber),
				log.ErrorField(telErr))
		} else if len(tel) > 0 {
			ds.FastestLapTelemetry = tel
		}
	}
	return ds, nil
}

// fastestLap returns the lap with the minimum total duration. Ties are
// broken by first occurrence in the lap table's natural order; laps
// without a duration never qualify.
func fastestLap(laps []model.LapRecord) *model.LapRecord {
	var best *model.LapRecord
	for i := range laps {
		if !laps[i].LapTime.IsValue() {
			continue
		}
		if best == nil || laps[i].LapTime.MustGet() < best.LapTime.MustGet() {
			best = &laps[i]
		}
	}
	return best
}
