package main

import (
	"path/filepath"
	"testing"

	"github.com/loopwork/echotrace/internal/assert"
)

var runTests = tests{
	"show the run command help with the short option": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "run", "-h")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace run ")
		assert.Equal(t, stderr, "")
	},

	"show the run command help with the long option": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "run", "--help")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace run ")
		assert.Equal(t, stderr, "")
	},

	"passing an unsupported flag to the command causes an error": func(t *testing.T) {
		_, _, exitCode := runEchotrace(t, "run", "-_")
		assert.Equal(t, exitCode, 2)
	},

	"an unsupported sockets extension causes an error": func(t *testing.T) {
		_, _, exitCode := runEchotrace(t, "run", "-S", "bogus")
		assert.Equal(t, exitCode, 2)
	},

	"a missing module path causes an error": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "run")
		assert.Equal(t, exitCode, 1)
		assert.Equal(t, stdout, "")
		assert.HasPrefix(t, stderr, "ERR: echotrace run: ")
	},

	"a module file that does not exist causes an error": func(t *testing.T) {
		_, stderr, exitCode := runEchotrace(t, "run", "--", filepath.Join(t.TempDir(), "nope.wasm"))
		assert.Equal(t, exitCode, 1)
		assert.HasPrefix(t, stderr, "ERR: echotrace run: could not read wasm file")
	},
}
