package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/svckit/observability"
	"github.com/aalemi-dev/svckit/tracing"
)

// ── config ────────────────────────────────────────────────────────────────────

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("BILLING_HOST", "http://billing.internal:8080")
	t.Setenv("BILLING_TIMEOUT", "3s")
	t.Setenv("BILLING_APP_NAME", "documents")
	t.Setenv("BILLING_APP_VERSION", "feature-roll-out-412")

	cfg, err := ConfigFromEnv("BILLING")
	require.NoError(t, err)

	assert.Equal(t, "http://billing.internal:8080", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "documents", cfg.AppName)
	assert.Equal(t, "feature-roll-out-412", cfg.AppVersion)
}

func TestConfigFromEnv_PrefixesKeepClientsApart(t *testing.T) {
	t.Setenv("BILLING_HOST", "http://billing.internal")
	t.Setenv("LEDGER_HOST", "http://ledger.internal")

	billing, err := ConfigFromEnv("BILLING")
	require.NoError(t, err)
	ledger, err := ConfigFromEnv("LEDGER")
	require.NoError(t, err)

	assert.Equal(t, "http://billing.internal", billing.BaseURL)
	assert.Equal(t, "http://ledger.internal", ledger.BaseURL)
}

// ── construction ──────────────────────────────────────────────────────────────

func TestNewClient_RequiresBaseURL(t *testing.T) {
	t.Parallel()
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrBaseURLRequired)
}

func TestNewClient_RejectsUnparsableBaseURL(t *testing.T) {
	t.Parallel()
	_, err := NewClient(Config{BaseURL: "http://bad url with spaces"})
	assert.Error(t, err)
}

// ── requests ──────────────────────────────────────────────────────────────────

// recordedRequest captures what the upstream saw.
type recordedRequest struct {
	method string
	path   string
	header http.Header
	body   []byte
}

func newUpstream(t *testing.T, status int, response string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	recorded := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded.method = r.Method
		recorded.path = r.URL.RequestURI()
		recorded.header = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		recorded.body = body
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, recorded
}

func TestPostJSON_SendsIdentityHeadersAndDecodesResponse(t *testing.T) {
	t.Parallel()
	srv, recorded := newUpstream(t, http.StatusOK, `{"id": "inv-1", "amount": "12.50"}`)

	client, err := NewClient(Config{
		BaseURL:    srv.URL,
		AppName:    "documents",
		AppVersion: "feature-roll-out-412",
	})
	require.NoError(t, err)

	var out struct {
		ID     string `json:"id"`
		Amount string `json:"amount"`
	}
	err = client.PostJSON(context.Background(), "/v1/invoices", map[string]string{"amount": "12.50"}, &out)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, recorded.method)
	assert.Equal(t, "/v1/invoices", recorded.path)
	assert.Equal(t, "application/json", recorded.header.Get("Content-Type"))
	assert.Equal(t, "documents", recorded.header.Get("x-app-name"))
	assert.Equal(t, "feature-roll-out-412", recorded.header.Get("x-app-version"))
	assert.JSONEq(t, `{"amount":"12.50"}`, string(recorded.body))

	assert.Equal(t, "inv-1", out.ID)
	assert.Equal(t, "12.50", out.Amount)
}

func TestGetJSON_DecodesResponse(t *testing.T) {
	t.Parallel()
	srv, recorded := newUpstream(t, http.StatusOK, `{"is_ready": true}`)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	var out struct {
		IsReady bool `json:"is_ready"`
	}
	require.NoError(t, client.GetJSON(context.Background(), "/ready", &out))

	assert.Equal(t, http.MethodGet, recorded.method)
	assert.True(t, out.IsReady)
}

func TestPostJSON_NilOutDiscardsBody(t *testing.T) {
	t.Parallel()
	srv, _ := newUpstream(t, http.StatusOK, `{"ignored": true}`)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	assert.NoError(t, client.PostJSON(context.Background(), "/v1/events", nil, nil))
}

func TestCall_Non2xxBecomesStatusError(t *testing.T) {
	t.Parallel()
	srv, _ := newUpstream(t, http.StatusUnprocessableEntity, `{"code": "insufficient_funds"}`)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	err = client.PostJSON(context.Background(), "/v1/invoices", map[string]string{}, nil)
	require.Error(t, err)

	statusErr, ok := AsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	assert.JSONEq(t, `{"code": "insufficient_funds"}`, string(statusErr.Body))
}

func TestCall_MalformedResponseBodyIsAnError(t *testing.T) {
	t.Parallel()
	srv, _ := newUpstream(t, http.StatusOK, `{not json`)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	var out map[string]interface{}
	assert.Error(t, client.GetJSON(context.Background(), "/v1/invoices", &out))
}

func TestCall_TransportFailureIsNotAStatusError(t *testing.T) {
	t.Parallel()
	client, err := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: 100 * time.Millisecond})
	require.NoError(t, err)

	err = client.GetJSON(context.Background(), "/unreachable", nil)
	require.Error(t, err)
	_, ok := AsStatusError(err)
	assert.False(t, ok)
}

// ── trace propagation ─────────────────────────────────────────────────────────

func TestCall_InjectsTraceHeadersWhenSpanActive(t *testing.T) {
	srv, recorded := newUpstream(t, http.StatusOK, `{}`)

	tracer, err := tracing.NewClient(tracing.Config{
		ServiceName: "httpclient-test",
		Propagation: tracing.PropagationW3C,
	})
	require.NoError(t, err)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	client.tracer = tracer

	err = tracer.WithSpan(context.Background(), "outbound-call", func(ctx context.Context) error {
		return client.PostJSON(ctx, "/v1/invoices", nil, nil)
	})
	require.NoError(t, err)

	traceparent := recorded.header.Get("traceparent")
	require.NotEmpty(t, traceparent, "active span must be propagated to the upstream")
}

func TestCall_NoTraceHeadersWithoutTracer(t *testing.T) {
	t.Parallel()
	srv, recorded := newUpstream(t, http.StatusOK, `{}`)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	require.NoError(t, client.GetJSON(context.Background(), "/v1/invoices", nil))
	assert.Empty(t, recorded.header.Get("traceparent"))
}

// ── observer ──────────────────────────────────────────────────────────────────

// captureObserver records every operation it is notified about.
type captureObserver struct {
	mu  sync.Mutex
	ops []observability.OperationContext
}

func (o *captureObserver) ObserveOperation(ctx observability.OperationContext) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, ctx)
}

func TestCall_NotifiesObserver(t *testing.T) {
	t.Parallel()
	srv, _ := newUpstream(t, http.StatusBadGateway, `upstream down`)

	observer := &captureObserver{}
	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	client.observer = observer

	err = client.PostJSON(context.Background(), "/v1/invoices", nil, nil)
	require.Error(t, err)

	require.Len(t, observer.ops, 1)
	op := observer.ops[0]
	assert.Equal(t, "http_client", op.Component)
	assert.Equal(t, "post", op.Operation)
	assert.Equal(t, "/v1/invoices", op.SubResource)
	assert.Error(t, op.Error)
	assert.Equal(t, map[string]interface{}{"status_code": http.StatusBadGateway}, op.Metadata)
}
