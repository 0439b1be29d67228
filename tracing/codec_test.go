package tracing

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInject_NoActiveSpan_ReturnsEmptyMap(t *testing.T) {
	t.Parallel()
	client, _ := newRecordedClient(t, PropagationW3C)

	carrier := client.Inject(context.Background())

	assert.Empty(t, carrier)
}

func TestInject_TagsSpanAsRPCClient(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationW3C)

	ctx, span := client.StartSpan(context.Background(), "outbound-call")
	carrier := client.Inject(ctx)
	span.End()

	assert.NotEmpty(t, carrier)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	kind, ok := spanAttr(ended[0], attrSpanKind)
	require.True(t, ok)
	assert.Equal(t, spanKindRPCClient, kind)
}

func TestInjectExtract_RoundTripPreservesTraceID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		format string
		header string
	}{
		{PropagationW3C, "traceparent"},
		{PropagationB3, "x-b3-traceid"},
		{PropagationJaeger, "uber-trace-id"},
	}

	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			t.Parallel()
			client, recorder := newRecordedClient(t, tc.format)

			ctx, span := client.StartSpan(context.Background(), "origin")
			carrier := client.Inject(ctx)
			span.End()

			require.Contains(t, carrier, tc.header, "documented header name for %s", tc.format)

			// A span started from the extracted context continues the trace.
			restored := client.Extract(context.Background(), carrier)
			err := client.WithSpan(restored, "continuation", func(ctx context.Context) error { return nil })
			require.NoError(t, err)

			ended := recorder.Ended()
			require.Len(t, ended, 2)
			origin, continuation := ended[0], ended[1]
			assert.Equal(t, origin.SpanContext().TraceID(), continuation.SpanContext().TraceID())
			assert.Equal(t, origin.SpanContext().SpanID(), continuation.Parent().SpanID())
			assert.True(t, continuation.Parent().IsRemote())
		})
	}
}

func TestExtract_MissingHeaders_YieldsRootSpan(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationW3C)

	ctx := client.Extract(context.Background(), map[string]string{})
	err := client.WithSpan(ctx, "orphan", func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.False(t, ended[0].Parent().IsValid())
}

func TestExtract_MalformedHeaders_NeverFails(t *testing.T) {
	t.Parallel()

	malformed := []map[string]string{
		{"traceparent": "garbage"},
		{"traceparent": "00-zzzz-yyyy-01"},
		{"traceparent": "00-00000000000000000000000000000000-0000000000000000-01"},
	}

	client, recorder := newRecordedClient(t, PropagationW3C)
	for _, headers := range malformed {
		ctx := client.Extract(context.Background(), headers)
		require.NotNil(t, ctx)

		err := client.WithSpan(ctx, "after-malformed", func(ctx context.Context) error { return nil })
		require.NoError(t, err)
	}

	// Every span degraded to a root instead of failing.
	for _, s := range recorder.Ended() {
		assert.False(t, s.Parent().IsValid())
	}
}

func TestInjectHTTP_StampsHeaders(t *testing.T) {
	t.Parallel()
	client, _ := newRecordedClient(t, PropagationW3C)

	ctx, span := client.StartSpan(context.Background(), "outbound")
	defer span.End()

	header := http.Header{}
	client.InjectHTTP(ctx, header)

	assert.NotEmpty(t, header.Get("traceparent"))
}

func TestInjectHTTP_NoActiveSpan_LeavesHeadersUntouched(t *testing.T) {
	t.Parallel()
	client, _ := newRecordedClient(t, PropagationW3C)

	header := http.Header{}
	client.InjectHTTP(context.Background(), header)

	assert.Empty(t, header)
}

func TestExtractHTTP_RoundTrip(t *testing.T) {
	t.Parallel()
	client, recorder := newRecordedClient(t, PropagationB3)

	ctx, span := client.StartSpan(context.Background(), "origin")
	header := http.Header{}
	client.InjectHTTP(ctx, header)
	span.End()

	restored := client.ExtractHTTP(context.Background(), header)
	err := client.WithSpan(restored, "continuation", func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, ended[0].SpanContext().TraceID(), ended[1].SpanContext().TraceID())
}
