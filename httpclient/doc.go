// Package httpclient provides the kit's outbound HTTP client for JSON APIs
// between services.
//
// The package exposes a small interface (`Caller`) implemented by the concrete
// `*Client`, which wraps a standard `*http.Client` and adds:
//   - The platform's application identity headers (x-app-name, x-app-version)
//     on every request
//   - Trace context propagation: when a tracer is configured, the active
//     trace is injected into the outbound headers so the callee continues it
//   - JSON encoding/decoding with the kit's shared jsoniter configuration
//   - Status handling: non-2xx responses surface as a *StatusError carrying
//     the code and response body
//   - Observer hooks on every call for metrics and logging
//
// # Basic usage
//
//	cfg := httpclient.Config{
//	    BaseURL:    "http://billing.internal:8080",
//	    AppName:    "documents",
//	    AppVersion: "feature-roll-out-412",
//	}
//
//	client, err := httpclient.NewClient(cfg)
//	if err != nil {
//	    // handle
//	}
//
//	var invoice Invoice
//	err = client.PostJSON(ctx, "/v1/invoices", CreateInvoice{Amount: "12.50"}, &invoice)
//
// A service typically constructs one Client per upstream dependency; the
// configuration prefix passed to ConfigFromEnv keeps their environment
// variables apart:
//
//	billingCfg, err := httpclient.ConfigFromEnv("BILLING")   // BILLING_HOST, ...
//	ledgerCfg, err := httpclient.ConfigFromEnv("LEDGER")     // LEDGER_HOST, ...
//
// # Error handling
//
// Transport failures are returned wrapped with call context. A response with
// a non-2xx status is returned as a *StatusError; the body is preserved so
// callers can decode the callee's error envelope:
//
//	err := client.PostJSON(ctx, "/v1/invoices", req, &resp)
//	var statusErr *httpclient.StatusError
//	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnprocessableEntity {
//	    // decode the business error envelope from statusErr.Body
//	}
//
// # FX integration
//
// FXModule provides a Client wired from an injected Config, with the logger,
// observer and tracer picked up when present in the dependency graph.
package httpclient
