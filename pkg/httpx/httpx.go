package httpx

import (
	"context"
	"io"
	"net/http"
)

// Request is the unified request representation used by handlers that
// need to run on more than one transport (net/http for the API server,
// fasthttp for the lean health probe).
type Request struct {
	Ctx        context.Context
	Method     string
	Path       string
	Header     http.Header
	Body       io.ReadCloser
	RemoteAddr string
	// Raw holds the underlying transport-specific request object
	// (e.g. *http.Request or *fasthttp.RequestCtx) for escape hatches.
	Raw interface{}
}

// ResponseWriter is the slice of http.ResponseWriter semantics the
// probe handlers actually use; each adapter maps it onto its transport.
type ResponseWriter interface {
	Header() http.Header
	Write([]byte) (int, error)
	WriteHeader(status int)
}

// HandlerFunc is the application handler signature used across adapters.
type HandlerFunc func(w ResponseWriter, r *Request)
