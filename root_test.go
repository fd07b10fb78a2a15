package main

import (
	"testing"

	"github.com/loopwork/echotrace/internal/assert"
)

var rootTests = tests{
	"invoking echotrace without a command prints the introduction message": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t)
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "echotrace - HTTP request diagnostic echo\n")
		assert.Equal(t, stderr, "")
	},

	"show the echotrace help with the short option": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "-h")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace <command> ")
		assert.Equal(t, stderr, "")
	},

	"show the echotrace help with the long option": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "--help")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace <command> ")
		assert.Equal(t, stderr, "")
	},
}
