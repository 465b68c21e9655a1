package processing

import (
	"context"

	"github.com/pitwall/pitwall/log"
	"github.com/pitwall/pitwall/pkg/model"
	"github.com/pitwall/pitwall/pkg/provider"
)

// BuildSessionContext computes the session-scoped constants once per
// session load. Both sub-values are best-effort: a failed color or
// corner fetch degrades that sub-value to its empty form and never
// fails the build. The owning controller replaces any previous context
// outright.
func BuildSessionContext(ctx context.Context, sess provider.Session) *model.SessionContext {
	l := log.Default().Named("context")
	sctx := &model.SessionContext{
		Key:     sess.Key(),
		Colors:  map[string]string{},
		Corners: []model.Corner{},
	}
	if colors, err := sess.DriverColors(ctx); err != nil {
		l.Warn("no driver color assignment, using default palette",
			log.String("session", sctx.Key.String()),
			log.ErrorField(err))
	} else if colors != nil {
		sctx.Colors = colors
	}
	if corners, err := sess.Corners(ctx); err != nil {
		l.Warn("no circuit corner data",
			log.String("session", sctx.Key.String()),
			log.ErrorField(err))
	} else if corners != nil {
		sctx.Corners = corners
	}
	return sctx
}
