package main

import (
	"strings"
	"testing"

	"github.com/loopwork/echotrace/internal/assert"
)

var versionTests = tests{
	"show the version command help with the short option": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "version", "-h")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace version\n")
		assert.Equal(t, stderr, "")
	},

	"show the version command help with the long option": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "version", "--help")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace version\n")
		assert.Equal(t, stderr, "")
	},

	"the version starts with the prefix echotrace": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "version")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "echotrace ")
		assert.Equal(t, stderr, "")
	},

	"the version number is not empty": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "version")
		assert.Equal(t, exitCode, 0)
		assert.Equal(t, stderr, "")

		_, version, _ := strings.Cut(stdout, " ")
		assert.True(t, strings.TrimSpace(version) != "")
	},

	"passing an unsupported flag to the command causes an error": func(t *testing.T) {
		_, _, exitCode := runEchotrace(t, "version", "-_")
		assert.Equal(t, exitCode, 2)
	},
}
