package main

import (
	"testing"

	"github.com/loopwork/echotrace/internal/assert"
)

var configTests = tests{
	"show the config command help with the short option": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "config", "-h")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace config ")
		assert.Equal(t, stderr, "")
	},

	"the default output is the configuration file itself": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "config")
		assert.Equal(t, exitCode, 0)
		assert.Contains(t, stdout, "trace:")
		assert.Contains(t, stdout, "location:")
		assert.Equal(t, stderr, "")
	},

	"the json output contains the server configuration": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "config", "-o", "json")
		assert.Equal(t, exitCode, 0)
		assert.Contains(t, stdout, `"server"`)
		assert.Contains(t, stdout, `"listen"`)
		assert.Equal(t, stderr, "")
	},

	"the yaml output contains the server configuration": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "config", "--output", "yaml")
		assert.Equal(t, exitCode, 0)
		assert.Contains(t, stdout, "server:")
		assert.Contains(t, stdout, "listen:")
		assert.Equal(t, stderr, "")
	},

	"an unsupported output format causes an error": func(t *testing.T) {
		_, _, exitCode := runEchotrace(t, "config", "-o", "xml")
		assert.Equal(t, exitCode, 2)
	},
}
