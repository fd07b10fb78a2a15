package main

import (
	"context"
)

const unknownCommand = `echotrace %s: unknown command
For a list of commands available, run 'echotrace help.'
`

func unknown(ctx context.Context, cmd string) error {
	return usageError(unknownCommand, cmd)
}
