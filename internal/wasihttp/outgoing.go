package wasihttp

import (
	"errors"
	"net/http"
)

var errResponseSet = errors.New("wasihttp: response was already set")

// OutgoingResponse is a response under construction: a status code, header
// fields, and a body accumulated through its output stream.
type OutgoingResponse struct {
	status  int
	headers *Fields
	body    bufferStream
}

// MakeOutgoingResponse constructs a response with the given header fields
// and a 200 status code.
func MakeOutgoingResponse(headers *Fields) *OutgoingResponse {
	if headers == nil {
		headers = MakeFields()
	}
	return &OutgoingResponse{status: http.StatusOK, headers: headers}
}

func (r *OutgoingResponse) StatusCode() int {
	return r.status
}

func (r *OutgoingResponse) SetStatusCode(code int) {
	r.status = code
}

func (r *OutgoingResponse) Headers() *Fields {
	return r.headers
}

// Body returns the output stream accumulating the response body.
func (r *OutgoingResponse) Body() OutputStream {
	return &r.body
}

// BodyBytes returns the body accumulated so far.
func (r *OutgoingResponse) BodyBytes() []byte {
	return r.body.buf.Bytes()
}

// ResponseOutparam is the destination slot for the response of an exchange.
// It is set exactly once; setting it a second time is an error.
type ResponseOutparam interface {
	Set(*OutgoingResponse) error
}

// NewResponseOutparam returns an out-param that delivers the response to a
// net/http response writer.
type httpOutparam struct {
	w   http.ResponseWriter
	set bool
}

func NewResponseOutparam(w http.ResponseWriter) ResponseOutparam {
	return &httpOutparam{w: w}
}

func (p *httpOutparam) Set(r *OutgoingResponse) error {
	if p.set {
		return errResponseSet
	}
	p.set = true
	header := p.w.Header()
	for key, values := range r.headers.HTTPHeader() {
		header[key] = append(header[key], values...)
	}
	p.w.WriteHeader(r.status)
	// The response was already committed, a short write here cannot be
	// surfaced to the client anymore.
	_, _ = p.w.Write(r.BodyBytes())
	return nil
}

// ResponseRecorder is an out-param that keeps the response in memory, for
// one-shot invocations and tests.
type ResponseRecorder struct {
	response *OutgoingResponse
}

func NewResponseRecorder() *ResponseRecorder {
	return new(ResponseRecorder)
}

func (p *ResponseRecorder) Set(r *OutgoingResponse) error {
	if p.response != nil {
		return errResponseSet
	}
	p.response = r
	return nil
}

// Response returns the recorded response, or nil if the out-param was never
// set.
func (p *ResponseRecorder) Response() *OutgoingResponse {
	return p.response
}
