package main

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/loopwork/echotrace/format"
	"github.com/loopwork/echotrace/format/httpformat"
	"github.com/loopwork/echotrace/internal/assert"
	"github.com/loopwork/echotrace/internal/echotrace"
	"github.com/loopwork/echotrace/internal/tracelog"
)

var traceTests = tests{
	"show the trace command help with the long option": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "trace", "--help")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace trace ")
		assert.Equal(t, stderr, "")
	},

	"recorded exchanges are printed one per line": func(t *testing.T) {
		writeTraceLog(t,
			httpformat.Exchange{
				ID:   format.NewUUID(),
				Time: time.Date(2023, 7, 12, 10, 32, 11, 0, time.UTC),
				Request: httpformat.Request{
					Method: "GET",
					Path:   "/foo?bar=baz",
				},
				Response: httpformat.Response{
					StatusCode: 200,
					Body:       format.Bytes("*** echotrace ***\n"),
				},
			},
			httpformat.Exchange{
				ID:   format.NewUUID(),
				Time: time.Date(2023, 7, 12, 10, 32, 12, 0, time.UTC),
				Request: httpformat.Request{
					Method: "POST",
					Path:   "/submit",
				},
				Response: httpformat.Response{
					StatusCode: 200,
				},
			},
		)

		stdout, stderr, exitCode := runEchotrace(t, "trace")
		assert.Equal(t, exitCode, 0)
		assert.Equal(t, stderr, "")

		lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
		assert.Equal(t, len(lines), 2)
		assert.Contains(t, lines[0], "GET /foo?bar=baz 200 18")
		assert.Contains(t, lines[1], "POST /submit 200 0")
	},

	"the limit option caps the number of exchanges printed": func(t *testing.T) {
		writeTraceLog(t,
			httpformat.Exchange{ID: format.NewUUID(), Time: time.Now(), Request: httpformat.Request{Method: "GET", Path: "/1"}},
			httpformat.Exchange{ID: format.NewUUID(), Time: time.Now(), Request: httpformat.Request{Method: "GET", Path: "/2"}},
			httpformat.Exchange{ID: format.NewUUID(), Time: time.Now(), Request: httpformat.Request{Method: "GET", Path: "/3"}},
		)

		stdout, _, exitCode := runEchotrace(t, "trace", "-n", "2")
		assert.Equal(t, exitCode, 0)
		assert.Equal(t, strings.Count(stdout, "\n"), 2)
	},

	"the json output is a stream of exchange objects": func(t *testing.T) {
		writeTraceLog(t,
			httpformat.Exchange{
				ID:   format.NewUUID(),
				Time: time.Now(),
				Request: httpformat.Request{
					Method: "PUT",
					Path:   "/upload",
				},
				Response: httpformat.Response{StatusCode: 200},
			},
		)

		stdout, _, exitCode := runEchotrace(t, "trace", "-o", "json")
		assert.Equal(t, exitCode, 0)
		assert.Contains(t, stdout, `"method": "PUT"`)
		assert.Contains(t, stdout, `"path": "/upload"`)
	},

	"reading an empty trace log prints nothing": func(t *testing.T) {
		writeTraceLog(t)

		stdout, stderr, exitCode := runEchotrace(t, "trace")
		assert.Equal(t, exitCode, 0)
		assert.Equal(t, stdout, "")
		assert.Equal(t, stderr, "")
	},

	"an explicit path argument overrides the configured location": func(t *testing.T) {
		path := writeTraceLog(t,
			httpformat.Exchange{
				ID:      format.NewUUID(),
				Time:    time.Now(),
				Request: httpformat.Request{Method: "GET", Path: "/elsewhere"},
			},
		)

		stdout, _, exitCode := runEchotrace(t, "trace", path)
		assert.Equal(t, exitCode, 0)
		assert.Contains(t, stdout, "/elsewhere")
	},
}

func writeTraceLog(t *testing.T, exchanges ...httpformat.Exchange) string {
	t.Helper()

	config, err := echotrace.LoadConfig()
	if err != nil {
		t.Fatal("loading echotrace configuration:", err)
	}
	location, ok := config.Trace.Location.Value()
	if !ok {
		t.Fatal("the test configuration has no trace log location")
	}
	path, err := location.Resolve()
	if err != nil {
		t.Fatal("resolving trace log location:", err)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal("creating trace log:", err)
	}
	defer f.Close()

	w := tracelog.NewWriter(f, tracelog.Zstd)
	for i := range exchanges {
		if err := w.WriteExchange(&exchanges[i]); err != nil {
			t.Fatal("writing trace log:", err)
		}
	}
	return path
}
