package middleware

import (
	"fmt"
	"net/http"
)

// requestScheme reports the scheme the request arrived on. The kit's
// services terminate TLS at the edge, so a plain listener means "http".
func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// requestTarget is the request target as sent by the client: path plus
// query string, e.g. "/documents/42?full=1".
func requestTarget(r *http.Request) string {
	return r.URL.RequestURI()
}

// requestURL reconstructs the full request URL from the scheme, the Host
// header and the request target.
func requestURL(r *http.Request) string {
	return fmt.Sprintf("%s://%s%s", requestScheme(r), r.Host, requestTarget(r))
}

// requestFlavor is the HTTP protocol version label value, e.g. "1.1" or "2".
func requestFlavor(r *http.Request) string {
	if r.ProtoMinor == 0 {
		return fmt.Sprintf("%d", r.ProtoMajor)
	}
	return fmt.Sprintf("%d.%d", r.ProtoMajor, r.ProtoMinor)
}
