// Package echo implements the request echo transformer: a handler which
// reflects the metadata, headers, and body of an incoming request back to
// the client as a line-oriented diagnostic report.
package echo

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/loopwork/echotrace/internal/wasihttp"
)

const (
	// DefaultMaxChunk caps the size of a single read from the request body
	// stream; bodies larger than this are accumulated over multiple reads.
	DefaultMaxChunk = 8 << 20 // 8 MiB

	// DefaultBanner is printed in the first line of the report when the
	// handler is not configured with one.
	DefaultBanner = "echotrace"

	contentLengthKey = "Content-Length"
)

// Handler transforms one request into one diagnostic report. The zero value
// is a valid handler using the default banner and chunk size.
//
// The handler is stateless across invocations and safe for concurrent use.
type Handler struct {
	Banner   string
	MaxChunk int
}

// Handle reads the request and delivers the diagnostic report through the
// response out-param. It never fails the exchange: read errors only omit the
// body section of the report, and the outcome of the final write is not
// surfaced.
func (h *Handler) Handle(req wasihttp.IncomingRequest, out wasihttp.ResponseOutparam) {
	banner := h.Banner
	if banner == "" {
		banner = DefaultBanner
	}
	maxChunk := h.MaxChunk
	if maxChunk <= 0 {
		maxChunk = DefaultMaxChunk
	}

	target := req.PathWithQuery()
	method := req.Method()
	headers := req.Headers().Entries()

	// The query is everything after the first '?'; the path line keeps the
	// original request target untouched.
	_, query, _ := strings.Cut(target, "?")

	// A missing or malformed Content-Length declares a zero-length body,
	// which terminates the read loop immediately.
	declared := declaredContentLength(headers)

	body, state := readBody(req, declared, maxChunk)

	report := new(bytes.Buffer)
	fmt.Fprintf(report, "*** %s ***\n", banner)
	report.WriteString("\n")
	report.WriteString("[Request Info]\n")
	fmt.Fprintf(report, "REQUEST_PATH = %s\n", target)
	fmt.Fprintf(report, "METHOD       = %s\n", method.Name())
	fmt.Fprintf(report, "QUERY        = %s\n", query)
	report.WriteString("\n")
	report.WriteString("[Request Headers]\n")
	for _, field := range headers {
		fmt.Fprintf(report, "%s = %s\n", field.Key, field.Value)
	}

	if (method == wasihttp.MethodPost || method == wasihttp.MethodPut) && state == bodyDone {
		fmt.Fprintf(report, "[%s data]\n", method.Name())
		report.Write(body)
		report.WriteString("\n")
		if uint64(len(body)) != declared {
			// Unreachable when the read loop completed, kept as a guard
			// against a regression in the loop invariant.
			fmt.Fprintf(report, "content length mismatch: received %d bytes, expected %d\n", len(body), declared)
		}
	}

	response := wasihttp.MakeOutgoingResponse(wasihttp.MakeFields(wasihttp.Field{
		Key:   contentLengthKey,
		Value: strconv.Itoa(report.Len()),
	}))
	// Best-effort delivery: a failed write cannot be recovered within the
	// handler and does not prevent returning the response.
	_ = response.Body().BlockingWriteAndFlush(report.Bytes())
	_ = out.Set(response)
}

// ServeHTTP lets the handler be mounted directly on a net/http server.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Handle(wasihttp.NewIncomingRequest(r), wasihttp.NewResponseOutparam(w))
}

// declaredContentLength scans the header pairs for a case-insensitive exact
// match of "Content-Length" and returns its value parsed as a base-10
// unsigned integer. The last parsable match wins; absence means zero.
func declaredContentLength(headers []wasihttp.Field) uint64 {
	declared := uint64(0)
	for _, field := range headers {
		if len(field.Key) != len(contentLengthKey) {
			continue
		}
		if !strings.EqualFold(field.Key, contentLengthKey) {
			continue
		}
		if v, err := strconv.ParseUint(field.Value, 10, 64); err == nil {
			declared = v
		}
	}
	return declared
}

type bodyState int

const (
	bodyDone bodyState = iota
	bodyTruncatedEOF
	bodyTruncatedError
)

// readBody consumes the request body, accumulating up to declared bytes in
// chunks of at most maxChunk. The accumulated buffer is only valid in the
// bodyDone state; on truncation it is discarded wholesale.
func readBody(req wasihttp.IncomingRequest, declared uint64, maxChunk int) ([]byte, bodyState) {
	stream, err := req.Consume()
	if err != nil {
		return nil, bodyTruncatedError
	}

	reserve := declared
	if reserve > uint64(maxChunk) {
		reserve = uint64(maxChunk)
	}
	body := make([]byte, 0, reserve)

	read := uint64(0)
	for read < declared {
		max := maxChunk
		if remaining := declared - read; remaining < uint64(max) {
			max = int(remaining)
		}
		chunk, err := stream.Read(max)
		if err != nil {
			return nil, bodyTruncatedError
		}
		if len(chunk) == 0 {
			// End of stream before the declared length was reached.
			return nil, bodyTruncatedEOF
		}
		body = append(body, chunk...)
		read += uint64(len(chunk))
	}
	return body, bodyDone
}
