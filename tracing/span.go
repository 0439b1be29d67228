package tracing

import (
	"context"
	"fmt"
)

// Func is a synchronous unit of work. The context passed to it carries the
// span opened for the unit, so nested traced calls become children of it.
type Func func(ctx context.Context) error

// AsyncFunc is an asynchronous unit of work: it starts the work and returns a
// channel that delivers the unit's result exactly once when the work
// completes. A nil channel is treated as immediate successful completion.
type AsyncFunc func(ctx context.Context) <-chan error

// WithSpan runs fn inside a child span named name. The parent is the span
// active in ctx; when none is active the new span is a root. The span is
// activated for the duration of fn via the derived context, so spans opened
// by nested calls close in strict reverse order of activation.
//
// When fn returns an error the span is tagged with the error flag and the
// error message and the error is returned unchanged — instrumentation never
// swallows or alters application errors. The span ends exactly once on every
// exit path, including panics (the panic is re-raised after the span closes).
//
//	err := client.WithSpan(ctx, "charge-card", func(ctx context.Context) error {
//	    return charges.Apply(ctx, card, amount)
//	})
func (t *TracerClient) WithSpan(ctx context.Context, name string, fn Func, opts ...SpanOption) (err error) {
	ctx, span := t.startSpan(ctx, name, opts)
	defer func() {
		if r := recover(); r != nil {
			recordSpanError(span, fmt.Errorf("panic: %v", r))
			span.End()
			panic(r)
		}
		if err != nil {
			recordSpanError(span, err)
		}
		span.End()
	}()

	err = fn(ctx)
	return err
}

// TraceFunc wraps a synchronous unit of work so that every invocation of the
// returned Func runs inside its own child span, under the same rules as
// WithSpan. When name is empty the wrapped function's qualified name is used.
//
// fn must be a Func (or any func(context.Context) error). Passing an
// asynchronous unit is a usage error reported here, at wrap time, with
// ErrAsyncUnit — not at call time. Any other type fails with
// ErrUnsupportedUnit.
//
//	loadUser, err := client.TraceFunc("", repo.LoadUser, tracing.WithQuery(userQuery))
//	if err != nil {
//	    return err
//	}
//	if err := loadUser(ctx); err != nil { ...
func (t *TracerClient) TraceFunc(name string, fn interface{}, opts ...SpanOption) (Func, error) {
	unit, err := asSyncUnit(fn)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = operationName(fn)
	}

	return func(ctx context.Context) error {
		return t.WithSpan(ctx, name, unit, opts...)
	}, nil
}

// TraceAsyncFunc wraps an asynchronous unit of work. Each invocation of the
// returned AsyncFunc opens a child span, starts the unit under it, and keeps
// the span open until the unit delivers its result; the result is then
// forwarded unchanged on the returned channel. Errors tag the span exactly
// like WithSpan does.
//
// fn must be an AsyncFunc (or any func(context.Context) <-chan error).
// Passing a synchronous unit is a usage error reported here, at wrap time,
// with ErrSyncUnit — not at call time. Any other type fails with
// ErrUnsupportedUnit.
func (t *TracerClient) TraceAsyncFunc(name string, fn interface{}, opts ...SpanOption) (AsyncFunc, error) {
	unit, err := asAsyncUnit(fn)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = operationName(fn)
	}

	return func(ctx context.Context) <-chan error {
		ctx, span := t.startSpan(ctx, name, opts)

		var done <-chan error
		func() {
			defer func() {
				if r := recover(); r != nil {
					recordSpanError(span, fmt.Errorf("panic: %v", r))
					span.End()
					panic(r)
				}
			}()
			done = unit(ctx)
		}()

		out := make(chan error, 1)
		go func() {
			defer close(out)
			var err error
			if done != nil {
				err = <-done
			}
			if err != nil {
				recordSpanError(span, err)
			}
			span.End()
			out <- err
		}()
		return out
	}, nil
}

func asSyncUnit(fn interface{}) (Func, error) {
	switch f := fn.(type) {
	case Func:
		return f, nil
	case func(context.Context) error:
		return f, nil
	case AsyncFunc:
		return nil, fmt.Errorf("%w: %s", ErrAsyncUnit, operationName(fn))
	case func(context.Context) <-chan error:
		return nil, fmt.Errorf("%w: %s", ErrAsyncUnit, operationName(fn))
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedUnit, fn)
	}
}

func asAsyncUnit(fn interface{}) (AsyncFunc, error) {
	switch f := fn.(type) {
	case AsyncFunc:
		return f, nil
	case func(context.Context) <-chan error:
		return f, nil
	case Func:
		return nil, fmt.Errorf("%w: %s", ErrSyncUnit, operationName(fn))
	case func(context.Context) error:
		return nil, fmt.Errorf("%w: %s", ErrSyncUnit, operationName(fn))
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedUnit, fn)
	}
}
