package main

import (
	"testing"

	"github.com/loopwork/echotrace/internal/assert"
)

var unknownTests = tests{
	"an error is reported when invoking an unknown command": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "whatever")
		assert.Equal(t, exitCode, 2)
		assert.Equal(t, stdout, "")
		assert.HasPrefix(t, stderr, "echotrace whatever: unknown command\n")
	},
}
