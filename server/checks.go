package server

import "context"

// Check is one readiness probe. The kit's storage clients expose Ready
// methods matching the Probe signature, so wiring is one line per backend:
//
//	server.Check{Service: "postgres", Probe: pg.Ready}
type Check struct {
	// Service names the checked dependency in the readiness response,
	// e.g. "postgres" or "redis".
	Service string

	// Probe reports whether the dependency is usable. A failing probe
	// returns false plus a human-readable reason; it never returns an
	// error, so the readiness endpoint can report degraded status instead
	// of failing itself.
	Probe func(ctx context.Context) (bool, string)
}
