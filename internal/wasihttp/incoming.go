package wasihttp

import (
	"errors"
	"net/http"
)

var errBodyConsumed = errors.New("wasihttp: request body was already consumed")

// IncomingRequest exposes the parts of a request that a handler may borrow:
// its metadata, its header fields, and its consumable body stream.
type IncomingRequest interface {
	Method() Method

	// PathWithQuery returns the request target, path and query string
	// joined by '?' when a query is present.
	PathWithQuery() string

	Headers() *Fields

	// Consume returns the body stream. The body can be consumed at most
	// once; subsequent calls return an error.
	Consume() (InputStream, error)
}

type incomingRequest struct {
	method   Method
	target   string
	headers  *Fields
	body     InputStream
	consumed bool
}

// MakeIncomingRequest constructs a request handle from its parts. A nil body
// behaves as an empty stream.
func MakeIncomingRequest(method Method, pathWithQuery string, headers *Fields, body InputStream) IncomingRequest {
	if headers == nil {
		headers = MakeFields()
	}
	if body == nil {
		body = emptyStream{}
	}
	return &incomingRequest{
		method:  method,
		target:  pathWithQuery,
		headers: headers,
		body:    body,
	}
}

// NewIncomingRequest adapts a net/http server request into a request handle.
func NewIncomingRequest(r *http.Request) IncomingRequest {
	return MakeIncomingRequest(
		ParseMethod(r.Method),
		r.URL.RequestURI(),
		NewFields(r.Header),
		NewInputStream(r.Body),
	)
}

func (r *incomingRequest) Method() Method {
	return r.method
}

func (r *incomingRequest) PathWithQuery() string {
	return r.target
}

func (r *incomingRequest) Headers() *Fields {
	return r.headers
}

func (r *incomingRequest) Consume() (InputStream, error) {
	if r.consumed {
		return nil, errBodyConsumed
	}
	r.consumed = true
	return r.body, nil
}

type emptyStream struct{}

func (emptyStream) Read(max int) ([]byte, error) { return nil, nil }
