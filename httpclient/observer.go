package httpclient

import (
	"net/http"
	"time"

	"github.com/aalemi-dev/svckit/observability"
)

// observeOperation notifies the observer about one outbound call if an
// observer is configured. The upstream host is the resource and the request
// path the sub-resource; when the call failed with a *StatusError the status
// code is attached as metadata.
func (c *Client) observeOperation(method, path string, duration time.Duration, err error) {
	if c == nil || c.observer == nil {
		return
	}

	var metadata map[string]interface{}
	if statusErr, ok := AsStatusError(err); ok {
		metadata = map[string]interface{}{"status_code": statusErr.StatusCode}
	}

	c.observer.ObserveOperation(observability.OperationContext{
		Component:   "http_client",
		Operation:   operationName(method),
		Resource:    c.baseURL.Host,
		SubResource: path,
		Duration:    duration,
		Error:       err,
		Metadata:    metadata,
	})
}

// operationName maps an HTTP method to the observer's operation vocabulary.
func operationName(method string) string {
	switch method {
	case http.MethodGet:
		return "get"
	case http.MethodPost:
		return "post"
	case http.MethodPut:
		return "put"
	case http.MethodDelete:
		return "delete"
	default:
		return method
	}
}
