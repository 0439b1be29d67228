package tracing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// newRecordedClient builds a TracerClient whose ended spans are captured
// in-memory, so tests can assert on names, order, parents and attributes.
func newRecordedClient(t *testing.T, format string) (*TracerClient, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	propagator, err := newPropagator(format)
	require.NoError(t, err)
	return &TracerClient{
		provider:   sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)),
		propagator: propagator,
	}, recorder
}

func spanAttr(s sdktrace.ReadOnlySpan, key string) (interface{}, bool) {
	for _, kv := range s.Attributes() {
		if string(kv.Key) == key {
			return kv.Value.AsInterface(), true
		}
	}
	return nil, false
}

// ── WithSpan ────────────────────────────────────────────────────────────────

func TestWithSpan_CreatesChildOfActiveSpan(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationW3C)

	err := client.WithSpan(context.Background(), "outer", func(ctx context.Context) error {
		return client.WithSpan(ctx, "inner", func(ctx context.Context) error {
			return nil
		})
	})
	require.NoError(t, err)

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	inner, outer := ended[0], ended[1]
	assert.Equal(t, "inner", inner.Name())
	assert.Equal(t, "outer", outer.Name())
	assert.Equal(t, outer.SpanContext().TraceID(), inner.SpanContext().TraceID())
	assert.Equal(t, outer.SpanContext().SpanID(), inner.Parent().SpanID())
}

func TestWithSpan_RootWhenNoParent(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationW3C)

	err := client.WithSpan(context.Background(), "root", func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.False(t, ended[0].Parent().IsValid())
	assert.True(t, ended[0].SpanContext().HasTraceID())
}

func TestWithSpan_ActivatesAndRestores(t *testing.T) {
	t.Parallel()
	client, _ := newRecordedClient(t, PropagationW3C)

	outerCtx, outerSpan := client.StartSpan(context.Background(), "outer")
	defer outerSpan.End()
	before := ActiveSpan(outerCtx).SpanContext()

	err := client.WithSpan(outerCtx, "nested", func(ctx context.Context) error {
		// The nested span is active inside the unit of work.
		assert.NotEqual(t, before.SpanID(), ActiveSpan(ctx).SpanContext().SpanID())
		assert.Equal(t, before.TraceID(), ActiveSpan(ctx).SpanContext().TraceID())
		return nil
	})
	require.NoError(t, err)

	// After the call the caller's context still holds the outer span.
	assert.Equal(t, before.SpanID(), ActiveSpan(outerCtx).SpanContext().SpanID())
}

func TestWithSpan_SpansCloseInReverseActivationOrder(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationW3C)

	err := client.WithSpan(context.Background(), "a", func(ctx context.Context) error {
		return client.WithSpan(ctx, "b", func(ctx context.Context) error {
			return client.WithSpan(ctx, "c", func(ctx context.Context) error { return nil })
		})
	})
	require.NoError(t, err)

	ended := recorder.Ended()
	require.Len(t, ended, 3)
	names := []string{ended[0].Name(), ended[1].Name(), ended[2].Name()}
	assert.Equal(t, []string{"c", "b", "a"}, names)
}

func TestWithSpan_ErrorReturnedUnchangedAndTagged(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationW3C)

	sentinel := errors.New("payment declined")
	err := client.WithSpan(context.Background(), "charge", func(ctx context.Context) error {
		return sentinel
	})

	require.ErrorIs(t, err, sentinel)

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	flag, ok := spanAttr(ended[0], attrError)
	require.True(t, ok)
	assert.Equal(t, true, flag)

	msg, ok := spanAttr(ended[0], attrErrorMessage)
	require.True(t, ok)
	assert.Equal(t, "payment declined", msg)
}

func TestWithSpan_PanicStillClosesSpan(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationW3C)

	require.Panics(t, func() {
		_ = client.WithSpan(context.Background(), "boom", func(ctx context.Context) error {
			panic("kaboom")
		})
	})

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	flag, ok := spanAttr(ended[0], attrError)
	require.True(t, ok)
	assert.Equal(t, true, flag)
}

func TestWithSpan_QueryOptionTagsDatabaseOperation(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationW3C)

	err := client.WithSpan(context.Background(), "load-user",
		func(ctx context.Context) error { return nil },
		WithQuery("SELECT id FROM users WHERE id = $1"),
	)
	require.NoError(t, err)

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	dbType, ok := spanAttr(ended[0], attrDBType)
	require.True(t, ok)
	assert.Equal(t, "postgres", dbType)

	stmt, ok := spanAttr(ended[0], attrDBStatement)
	require.True(t, ok)
	assert.Equal(t, "SELECT id FROM users WHERE id = $1", stmt)
}

// ── TraceFunc / TraceAsyncFunc ──────────────────────────────────────────────

func TestTraceFunc_WrapsAndRuns(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationW3C)

	called := false
	wrapped, err := client.TraceFunc("do-work", func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, wrapped(context.Background()))
	assert.True(t, called)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "do-work", ended[0].Name())
}

func TestTraceFunc_DerivesNameFromFunction(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationW3C)

	wrapped, err := client.TraceFunc("", namedUnit)
	require.NoError(t, err)
	require.NoError(t, wrapped(context.Background()))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Contains(t, ended[0].Name(), "namedUnit")
}

func namedUnit(ctx context.Context) error { return nil }

func TestTraceFunc_RejectsAsyncUnitAtWrapTime(t *testing.T) {
	t.Parallel()
	client, _ := newRecordedClient(t, PropagationW3C)

	async := func(ctx context.Context) <-chan error { return nil }

	wrapped, err := client.TraceFunc("mismatch", async)
	require.ErrorIs(t, err, ErrAsyncUnit)
	assert.Nil(t, wrapped)

	// The named AsyncFunc type is rejected the same way.
	wrapped, err = client.TraceFunc("mismatch", AsyncFunc(async))
	require.ErrorIs(t, err, ErrAsyncUnit)
	assert.Nil(t, wrapped)
}

func TestTraceFunc_RejectsUnsupportedType(t *testing.T) {
	t.Parallel()
	client, _ := newRecordedClient(t, PropagationW3C)

	_, err := client.TraceFunc("nope", 42)
	require.ErrorIs(t, err, ErrUnsupportedUnit)

	_, err = client.TraceFunc("nope", func() {})
	require.ErrorIs(t, err, ErrUnsupportedUnit)
}

func TestTraceAsyncFunc_RejectsSyncUnitAtWrapTime(t *testing.T) {
	t.Parallel()
	client, _ := newRecordedClient(t, PropagationW3C)

	sync := func(ctx context.Context) error { return nil }

	wrapped, err := client.TraceAsyncFunc("mismatch", sync)
	require.ErrorIs(t, err, ErrSyncUnit)
	assert.Nil(t, wrapped)

	wrapped, err = client.TraceAsyncFunc("mismatch", Func(sync))
	require.ErrorIs(t, err, ErrSyncUnit)
	assert.Nil(t, wrapped)
}

func TestTraceAsyncFunc_SpanStaysOpenUntilCompletion(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationW3C)

	release := make(chan error, 1)
	wrapped, err := client.TraceAsyncFunc("background", func(ctx context.Context) <-chan error {
		return release
	})
	require.NoError(t, err)

	out := wrapped(context.Background())
	assert.Empty(t, recorder.Ended(), "span must stay open while the unit is running")

	sentinel := errors.New("worker failed")
	release <- sentinel

	got := <-out
	require.ErrorIs(t, got, sentinel)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "background", ended[0].Name())
	flag, ok := spanAttr(ended[0], attrError)
	require.True(t, ok)
	assert.Equal(t, true, flag)
}

func TestTraceAsyncFunc_NilChannelCompletesImmediately(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationW3C)

	wrapped, err := client.TraceAsyncFunc("fire-and-forget", func(ctx context.Context) <-chan error {
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, <-wrapped(context.Background()))
	require.Len(t, recorder.Ended(), 1)
}

func TestTraceAsyncFunc_ChildOfActiveSpan(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationW3C)

	wrapped, err := client.TraceAsyncFunc("async-child", func(ctx context.Context) <-chan error {
		done := make(chan error, 1)
		done <- nil
		return done
	})
	require.NoError(t, err)

	err = client.WithSpan(context.Background(), "parent", func(ctx context.Context) error {
		return <-wrapped(ctx)
	})
	require.NoError(t, err)

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
}

// ── Concurrency isolation ───────────────────────────────────────────────────

func TestConcurrentTasks_SpanStacksAreIsolated(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationW3C)

	const tasks = 8
	const depth = 5

	traceIDs := make([]trace.TraceID, tasks)
	var wg sync.WaitGroup
	for i := 0; i < tasks; i++ {
		wg.Add(1)
		go func(task int) {
			defer wg.Done()

			var nest func(ctx context.Context, level int) error
			nest = func(ctx context.Context, level int) error {
				if level == depth {
					traceIDs[task] = ActiveSpan(ctx).SpanContext().TraceID()
					return nil
				}
				return client.WithSpan(ctx, fmt.Sprintf("task-%d-level-%d", task, level), func(ctx context.Context) error {
					return nest(ctx, level+1)
				})
			}
			require.NoError(t, nest(context.Background(), 0))
		}(i)
	}
	wg.Wait()

	// Every task got its own trace, with no cross-contamination.
	seen := map[trace.TraceID]int{}
	for _, id := range traceIDs {
		assert.True(t, id.IsValid())
		seen[id]++
	}
	assert.Len(t, seen, tasks)

	// All spans of one trace belong to one task.
	perTrace := map[trace.TraceID]int{}
	for _, s := range recorder.Ended() {
		perTrace[s.SpanContext().TraceID()]++
	}
	require.Len(t, perTrace, tasks)
	for id, n := range perTrace {
		assert.Equalf(t, depth, n, "trace %s", id)
	}
}
