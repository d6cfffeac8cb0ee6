package trace

import (
	"net/http"
)

// Middleware extracts or creates trace context for HTTP requests and echoes
// the trace id back so browser-side logs can be correlated.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tc := FromHeaders(r.Header.Get)
		w.Header().Set(TraceIDKey, tc.TraceID)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), tc)))
	})
}

// Transport wraps an http.RoundTripper and stamps outgoing requests with the
// trace context of their request context.
type Transport struct {
	Base http.RoundTripper
}

// NewTransport wraps base, or http.DefaultTransport when base is nil.
func NewTransport(base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	tc, ok := FromContext(req.Context())
	if !ok {
		return t.Base.RoundTrip(req)
	}
	out := req.Clone(req.Context())
	for k, v := range tc.Headers() {
		out.Header.Set(k, v)
	}
	return t.Base.RoundTrip(out)
}
