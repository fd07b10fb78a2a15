// Package httpformat declares the shapes of HTTP exchanges written to and
// read from the trace log. Headers are kept as ordered pairs because the
// echo report depends on their order.
package httpformat

import (
	"time"

	"github.com/loopwork/echotrace/format"
)

type Field struct {
	Name  string `json:"name"  yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type Request struct {
	Method string       `json:"method,omitempty" yaml:"method,omitempty"`
	Path   string       `json:"path,omitempty"   yaml:"path,omitempty"`
	Header []Field      `json:"header,omitempty" yaml:"header,omitempty"`
	Body   format.Bytes `json:"body,omitempty"   yaml:"body,omitempty"`
}

type Response struct {
	StatusCode int          `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Header     []Field      `json:"header,omitempty"     yaml:"header,omitempty"`
	Body       format.Bytes `json:"body,omitempty"       yaml:"body,omitempty"`
}

// Exchange is one request/response pair served by the echo handler.
type Exchange struct {
	ID       format.UUID `json:"id"                 yaml:"id"`
	Time     time.Time   `json:"time"               yaml:"time"`
	Request  Request     `json:"request"            yaml:"request"`
	Response Response    `json:"response"           yaml:"response"`
}
