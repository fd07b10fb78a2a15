package main

import (
	"testing"

	"github.com/loopwork/echotrace/internal/assert"
)

var helpTests = tests{
	"calling help with an unknown command causes an error": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "help", "whatever")
		assert.Equal(t, exitCode, 2)
		assert.Equal(t, stdout, "")
		assert.Equal(t, stderr, "echotrace help whatever: unknown command\n")
	},

	"passing an unsupported flag to the command causes an error": func(t *testing.T) {
		_, _, exitCode := runEchotrace(t, "help", "-_")
		assert.Equal(t, exitCode, 2)
	},

	"show the help command help with the short option": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "help", "-h")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace <command> ")
		assert.Equal(t, stderr, "")
	},

	"show the help command help with the long option": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "help", "--help")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace <command> ")
		assert.Equal(t, stderr, "")
	},

	"echotrace help config": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "help", "config")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace config ")
		assert.Equal(t, stderr, "")
	},

	"echotrace help echo": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "help", "echo")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace echo ")
		assert.Equal(t, stderr, "")
	},

	"echotrace help help": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "help", "help")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace <command> ")
		assert.Equal(t, stderr, "")
	},

	"echotrace help run": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "help", "run")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace run ")
		assert.Equal(t, stderr, "")
	},

	"echotrace help serve": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "help", "serve")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace serve ")
		assert.Equal(t, stderr, "")
	},

	"echotrace help trace": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "help", "trace")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace trace ")
		assert.Equal(t, stderr, "")
	},

	"echotrace help version": func(t *testing.T) {
		stdout, stderr, exitCode := runEchotrace(t, "help", "version")
		assert.Equal(t, exitCode, 0)
		assert.HasPrefix(t, stdout, "Usage:\techotrace version\n")
		assert.Equal(t, stderr, "")
	},
}
