// Package service owns the session/selection lifecycle: one loaded
// session context and at most one live driver dataset. Every
// computation gets its inputs passed explicitly; there is no ambient
// session state anywhere else.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pitwall/pitwall/log"
	"github.com/pitwall/pitwall/pkg/model"
	"github.com/pitwall/pitwall/pkg/processing"
	"github.com/pitwall/pitwall/pkg/provider"
	"github.com/pitwall/pitwall/pkg/utils/cache"
	"github.com/pitwall/pitwall/pkg/utils/cache/selection"
)

var (
	ErrNoSession     = errors.New("no session loaded")
	ErrUnknownDriver = errors.New("unknown driver")
)

type selectionKey struct {
	session model.SessionKey
	driver  string
}

type AnalysisService struct {
	// the core itself is synchronous; the mutex only serializes the
	// shell's concurrent HTTP handlers around the single live selection
	mu        sync.Mutex
	provider  provider.Provider
	session   provider.Session
	sctx      *model.SessionContext
	assembler *processing.Assembler
	drivers   []model.DriverInfo
	byID      map[string]model.DriverInfo
	order     map[string]int // driver id -> selection order (palette fallback)
	datasets  cache.Cache[selectionKey, model.DriverDataset]
	current   *model.DriverDataset
	l         *log.Logger
}

type Option func(s *AnalysisService)

func WithLogger(arg *log.Logger) Option {
	return func(s *AnalysisService) {
		s.l = arg
	}
}

func New(p provider.Provider, opts ...Option) *AnalysisService {
	s := &AnalysisService{
		provider: p,
		l:        log.Default().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.datasets = selection.New(
		selection.WithLogger[selectionKey, model.DriverDataset](s.l),
		selection.WithLoader(s.assemble),
	)
	return s
}

// LoadSession loads a session and atomically replaces the previous
// session context, driver list and any cached dataset. A dataset built
// against the prior context can never be served again afterwards.
func (s *AnalysisService) LoadSession(ctx context.Context, key model.SessionKey) error {
	sess, err := s.provider.LoadSession(ctx, key)
	if err != nil {
		return err
	}
	drivers, err := sess.Drivers(ctx)
	if err != nil {
		return &provider.Error{Op: "drivers", Key: key, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
	s.sctx = processing.BuildSessionContext(ctx, sess)
	s.assembler = processing.NewAssembler(sess, processing.WithLogger(s.l.Named("assemble")))
	s.drivers = drivers
	s.byID = make(map[string]model.DriverInfo, len(drivers))
	for _, d := range drivers {
		s.byID[d.ID] = d
	}
	s.order = make(map[string]int)
	s.datasets.InvalidateAll(ctx)
	s.current = nil
	s.l.Info("session loaded",
		log.String("session", key.String()),
		log.Int("drivers", len(drivers)),
		log.Int("corners", len(s.sctx.Corners)))
	return nil
}

// Context returns the active session context, nil when nothing is
// loaded.
func (s *AnalysisService) Context() *model.SessionContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sctx
}

// Drivers lists the drivers of the loaded session.
func (s *AnalysisService) Drivers() []model.DriverInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drivers
}

// SelectDriver assembles (or reuses) the dataset for one driver. The
// dataset is nil when the driver has no laps; that is not an error.
func (s *AnalysisService) SelectDriver(ctx context.Context, driverID string) (*model.DriverDataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectDriverLocked(ctx, driverID)
}

func (s *AnalysisService) selectDriverLocked(ctx context.Context, driverID string) (*model.DriverDataset, error) {
	if s.session == nil {
		return nil, ErrNoSession
	}
	if _, ok := s.byID[driverID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driverID)
	}
	ds, err := s.datasets.Get(ctx, selectionKey{session: s.session.Key(), driver: driverID})
	if err != nil {
		return nil, err
	}
	s.current = ds
	return ds, nil
}

// assemble is the selection cache's loader; it runs once per driver
// change, not once per consumer.
func (s *AnalysisService) assemble(ctx context.Context, key selectionKey) (*model.DriverDataset, error) {
	driver := s.byID[key.driver]
	idx, ok := s.order[key.driver]
	if !ok {
		idx = len(s.order)
		s.order[key.driver] = idx
	}
	return s.assembler.Assemble(ctx, driver, s.sctx, idx)
}

// Current returns the live dataset, nil when no driver is selected or
// the selected driver has no laps.
func (s *AnalysisService) Current() *model.DriverDataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Analyze selects the driver and runs the full set of derived
// computations. Missing channels surface as unavailable results inside
// the bundle, never as errors. The dataset the bundle was computed
// from is returned alongside it; consumers rendering both must use
// this pair and never re-read the live selection, which a concurrent
// driver change may have replaced already.
func (s *AnalysisService) Analyze(
	ctx context.Context, driverID string,
) (*model.DriverAnalysis, *model.DriverDataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, err := s.selectDriverLocked(ctx, driverID)
	if err != nil {
		return nil, nil, err
	}
	res := processing.Analyze(ds)
	if ds == nil {
		// keep driver identity in the bundle even without laps
		res.Driver = s.byID[driverID]
	}
	return res, ds, nil
}
