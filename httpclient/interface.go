package httpclient

import "context"

// Caller is the outbound JSON API surface used by application code.
// It is implemented by the concrete *Client type.
type Caller interface {
	// GetJSON performs a GET against path (resolved on the base URL) and
	// decodes the 2xx response body into out. A nil out discards the body.
	GetJSON(ctx context.Context, path string, out interface{}) error

	// PostJSON encodes body as JSON, POSTs it to path and decodes the 2xx
	// response body into out. A nil body sends an empty request body; a nil
	// out discards the response.
	PostJSON(ctx context.Context, path string, body, out interface{}) error
}
