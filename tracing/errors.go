package tracing

import "errors"

var (
	// ErrNotConfigured is the panic value of Current when Configure has never
	// succeeded. Tracing misconfiguration is a programming error and must
	// surface immediately instead of silently producing orphan traces.
	ErrNotConfigured = errors.New("tracing: tracer is not configured, call Configure first")

	// ErrAsyncUnit is returned by TraceFunc when the given unit of work is
	// asynchronous (returns a completion channel). Wrap it with TraceAsyncFunc.
	ErrAsyncUnit = errors.New("tracing: unit of work is asynchronous, wrap it with TraceAsyncFunc")

	// ErrSyncUnit is returned by TraceAsyncFunc when the given unit of work is
	// synchronous. Wrap it with TraceFunc.
	ErrSyncUnit = errors.New("tracing: unit of work is synchronous, wrap it with TraceFunc")

	// ErrUnsupportedUnit is returned by TraceFunc and TraceAsyncFunc when the
	// given value is neither a Func nor an AsyncFunc.
	ErrUnsupportedUnit = errors.New("tracing: unsupported unit of work type")

	// ErrUnsupportedPropagation is returned by NewClient for an unknown
	// Config.Propagation value.
	ErrUnsupportedPropagation = errors.New("tracing: unsupported propagation format")
)
