package echotrace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/loopwork/echotrace/format"
	"github.com/loopwork/echotrace/format/httpformat"
	"github.com/loopwork/echotrace/internal/echo"
	"github.com/loopwork/echotrace/internal/tracelog"
	"github.com/loopwork/echotrace/internal/wasihttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Server exposes the echo handler over HTTP. Requests are optionally paced
// by a rate limiter and recorded to a trace log.
type Server struct {
	Handler *echo.Handler

	// Limiter paces incoming requests when non-nil.
	Limiter *rate.Limiter

	// Trace records each exchange when non-nil.
	Trace *tracelog.Writer

	// Log receives one line per exchange when non-nil.
	Log io.Writer
}

// Serve accepts connections until ctx is cancelled, then shuts down
// gracefully. h2c is enabled so HTTP/2 works over cleartext connections.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	server := &http.Server{
		Handler: h2c.NewHandler(s, &http2.Server{}),
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.Serve(l); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
	}

	exchangeID := format.NewUUID()
	startTime := time.Now().UTC()

	method := wasihttp.ParseMethod(r.Method)
	target := r.URL.RequestURI()
	headers := wasihttp.NewFields(r.Header)

	var requestBody bytes.Buffer
	body := io.Reader(r.Body)
	if s.Trace != nil {
		body = io.TeeReader(body, &requestBody)
	}

	request := wasihttp.MakeIncomingRequest(method, target, headers, wasihttp.NewInputStream(body))
	recorder := wasihttp.NewResponseRecorder()
	s.Handler.Handle(request, recorder)

	response := recorder.Response()
	_ = wasihttp.NewResponseOutparam(w).Set(response)

	if s.Log != nil {
		fmt.Fprintf(s.Log, "%s %s %s %s %d %d\n",
			startTime.Format(time.RFC3339),
			exchangeID,
			method.Name(),
			target,
			response.StatusCode(),
			len(response.BodyBytes()),
		)
	}

	if s.Trace != nil {
		exchange := &httpformat.Exchange{
			ID:   exchangeID,
			Time: startTime,
			Request: httpformat.Request{
				Method: method.Name(),
				Path:   target,
				Header: traceHeader(headers),
				Body:   format.Bytes(requestBody.Bytes()),
			},
			Response: httpformat.Response{
				StatusCode: response.StatusCode(),
				Header:     traceHeader(response.Headers()),
				Body:       format.Bytes(response.BodyBytes()),
			},
		}
		if err := s.Trace.WriteExchange(exchange); err != nil && s.Log != nil {
			fmt.Fprintf(s.Log, "WARN: could not record exchange %s: %s\n", exchangeID, err)
		}
	}
}

func traceHeader(fields *wasihttp.Fields) []httpformat.Field {
	entries := fields.Entries()
	header := make([]httpformat.Field, len(entries))
	for i, field := range entries {
		header[i] = httpformat.Field{Name: field.Key, Value: field.Value}
	}
	return header
}
