package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loopwork/echotrace/internal/assert"
)

var echoTests = tests{
	"show the echo command help with the long option": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "echo", "--help")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace echo ")
		assert.Equal(t, stderr, "")
	},

	"a GET request is reflected as a diagnostic report": func(t *testing.T) {
		path := writeRequestFile(t,
			"GET /foo?bar=baz HTTP/1.1\r\n"+
				"Accept: */*\r\n"+
				"\r\n")

		stdout, stderr, exitCode := runEchotrace(t, "echo", path)
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "*** echotrace ***\n")
		assert.Contains(t, stdout, "REQUEST_PATH = /foo?bar=baz\n")
		assert.Contains(t, stdout, "METHOD       = GET\n")
		assert.Contains(t, stdout, "QUERY        = bar=baz\n")
		assert.Contains(t, stdout, "Accept = */*\n")
		assert.NotContains(t, stdout, "[GET data]")
		assert.Equal(t, stderr, "")
	},

	"a POST request body is echoed back in the data section": func(t *testing.T) {
		path := writeRequestFile(t,
			"POST /submit HTTP/1.1\r\n"+
				"Content-Length: 12\r\n"+
				"Content-Type: text/plain\r\n"+
				"\r\n"+
				"Hello, World")

		stdout, stderr, exitCode := runEchotrace(t, "echo", path)
		assert.Equal(t, exitCode, 0)
		assert.Contains(t, stdout, "METHOD       = POST\n")
		assert.Contains(t, stdout, "[POST data]\nHello, World\n")
		assert.Equal(t, stderr, "")
	},

	"the banner option changes the first line of the report": func(t *testing.T) {
		path := writeRequestFile(t,
			"GET / HTTP/1.1\r\n"+
				"\r\n")

		stdout, _, exitCode := runEchotrace(t, "echo", "-b", "custom banner", path)
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "*** custom banner ***\n")
	},

	"a missing request file causes an error": func(t *testing.T) {
		_, stderr, exitCode := runEchotrace(t, "echo", filepath.Join(t.TempDir(), "nope"))
		assert.Equal(t, exitCode, 1)
		assert.HasPrefix(t, stderr, "ERR: echotrace echo: ")
	},
}

func writeRequestFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.http")
	if err := os.WriteFile(path, []byte(content), 0666); err != nil {
		t.Fatal("writing request file:", err)
	}
	return path
}
