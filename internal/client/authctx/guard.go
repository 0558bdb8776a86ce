package authctx

import (
	"github.com/rs/zerolog"

	"shopfront/internal/client/session"
)

// Navigator is the host's router.
type Navigator interface {
	CurrentPath() string
	Redirect(path string)
}

// RouteGuard sends the user to the login page when their session is
// rejected while a protected page is showing.
type RouteGuard struct {
	store       Store
	nav         Navigator
	log         zerolog.Logger
	unsubscribe func()
}

func NewRouteGuard(store Store, nav Navigator, log zerolog.Logger) *RouteGuard {
	g := &RouteGuard{store: store, nav: nav, log: log}
	g.unsubscribe = store.Subscribe(g.handle)
	return g
}

// The store clears itself on foreground rejections. A background rejection
// only ends the session while a protected page is showing; on a public page
// it is ignored.
func (g *RouteGuard) handle(ev session.Invalidation) {
	path := g.nav.CurrentPath()
	if !Protected(path) {
		return
	}
	if ev.Background {
		if err := g.store.Clear(); err != nil {
			g.log.Error().Err(err).Msg("clear session failed")
		}
	}
	g.log.Info().Str("path", path).Str("cause", ev.String()).Msg("session rejected, redirecting to login")
	g.nav.Redirect(LoginPath)
}

func (g *RouteGuard) Close() {
	g.unsubscribe()
}
