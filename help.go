package main

import (
	"context"
	"fmt"
	"strings"
)

const helpUsage = `
Usage:	echotrace <command> [options]

Server Commands:
   serve    Serve the echo handler over HTTP and record exchanges
   run      Run a WebAssembly (WASI) transformer module

Inspection Commands:
   echo     Run the echo handler on a single request read from a file or stdin
   trace    Print the exchanges recorded in a trace log

Other Commands:
   config   Show or edit the echotrace configuration
   help     Show usage information about echotrace commands
   version  Show the echotrace version information

For a description of each command, run 'echotrace help <command>'.`

func help(ctx context.Context, args []string) error {
	flagSet := newFlagSet("echotrace help", helpUsage)

	args, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}

	var cmd string
	var msg string

	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "config":
		msg = configUsage
	case "echo":
		msg = echoUsage
	case "help", "":
		msg = helpUsage
	case "run":
		msg = runUsage
	case "serve":
		msg = serveUsage
	case "trace":
		msg = traceUsage
	case "version":
		msg = versionUsage
	default:
		return usageError("echotrace help %s: unknown command", cmd)
	}

	fmt.Println(strings.TrimSpace(msg))
	return nil
}
