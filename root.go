package main

// Notes on program structure
// --------------------------
//
// Echotrace uses subcommands to invoke specific functionalities of the
// program. Each subcommand is implemented by a function named after the
// command, in a file of the same name (e.g. the "serve" command is
// implemented by the serve function in serve.go).
//
// The usage message for each command is declared by a constant starting with
// the command name and followed by the suffix "Usage". For example, the usage
// message for the "serve" command is declared by the constant serveUsage.
//
// The usage message contains a "Usage:	echotrace <command>" section
// presenting the structure of the command. Note the tabulation separating
// "Usage:" and "echotrace".

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/loopwork/echotrace/internal/echotrace"
	"github.com/loopwork/echotrace/internal/print/human"
	"golang.org/x/exp/slices"
)

const rootUsage = `echotrace - HTTP request diagnostic echo

   echotrace reflects incoming HTTP requests back to their sender as a
   line-oriented diagnostic report: request path, method, query string,
   headers, and body for POST and PUT requests.

Example:

   $ echotrace serve -l localhost:3000
   ...

   $ curl 'http://localhost:3000/foo?bar=baz'
   *** echotrace ***
   ...

For a list of commands available, run 'echotrace help'.`

// root is the echotrace entrypoint.
func root(ctx context.Context, args ...string) int {
	if path, ok := os.LookupEnv("ECHOTRACECONFIG"); ok {
		echotrace.ConfigPath = human.Path(path)
	}

	flagSet := newFlagSet("echotrace", helpUsage)
	_ = flagSet.Parse(args)

	if args = flagSet.Args(); len(args) == 0 {
		fmt.Println(rootUsage)
		return 0
	}

	cmd, args := args[0], args[1:]

	var err error
	switch cmd {
	case "config":
		err = config(ctx, args)
	case "echo":
		err = echo(ctx, args)
	case "help":
		err = help(ctx, args)
	case "run":
		err = run(ctx, args)
	case "serve":
		err = serve(ctx, args)
	case "trace":
		err = trace(ctx, args)
	case "version":
		err = version(ctx, args)
	default:
		err = unknown(ctx, cmd)
	}

	switch e := err.(type) {
	case nil:
		return 0
	case exitCode:
		return int(e)
	case usage:
		fmt.Fprintf(os.Stderr, "%s\n", e)
		return 2
	default:
		fmt.Fprintf(os.Stderr, "ERR: echotrace %s: %s\n", cmd, err)
		return 1
	}
}

// exitCode is an error type returned from command functions to indicate the
// exit code that should be returned by the program.
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("exit: %d", e)
}

// usage is an error type returned from command functions to indicate a usage
// error.
//
// Usage errors cause the program to exit with status code 2.
type usage string

func usageError(msg string, args ...any) error {
	return usage(fmt.Sprintf(msg, args...))
}

func (e usage) Error() string {
	return string(e)
}

func setEnum[T ~string](enum *T, typ string, value string, options ...string) error {
	for _, option := range options {
		if option == value {
			*enum = T(option)
			return nil
		}
	}
	return fmt.Errorf("unsupported %s: %q (not one of %s)", typ, value, strings.Join(options, ", "))
}

type compression string

func (c compression) String() string {
	return string(c)
}

func (c *compression) Set(value string) error {
	return setEnum(c, "compression type", value, "snappy", "zstd", "none")
}

type sockets string

func (s sockets) String() string {
	return string(s)
}

func (s *sockets) Set(value string) error {
	return setEnum(s, "sockets extension", value, "none", "auto", "path_open", "wasmedgev1", "wasmedgev2")
}

type outputFormat string

func (o outputFormat) String() string {
	return string(o)
}

func (o *outputFormat) Set(value string) error {
	return setEnum(o, "output format", value, "text", "json", "yaml")
}

type stringList []string

func (s stringList) String() string {
	return fmt.Sprintf("%v", []string(s))
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func newFlagSet(cmd, usage string) *flag.FlagSet {
	usage = strings.TrimSpace(usage)
	flagSet := flag.NewFlagSet(cmd, flag.ContinueOnError)
	flagSet.SetOutput(discard{})
	flagSet.Usage = func() { fmt.Println(usage) }
	customVar(flagSet, &echotrace.ConfigPath, "c", "config")
	return flagSet
}

type discard struct{}

func (discard) Write(b []byte) (int, error) { return len(b), nil }

// parseFlags is a greedy parser which consumes all options known to f and
// returns the remaining arguments.
func parseFlags(f *flag.FlagSet, args []string) ([]string, error) {
	var unknownArgs []string
	for {
		// The flag set prints the usage message itself before returning
		// flag.ErrHelp.
		if err := f.Parse(args); err != nil {
			if err == flag.ErrHelp {
				return nil, exitCode(0)
			}
			return nil, usageError("%s", err)
		}
		if args = f.Args(); len(args) == 0 {
			return unknownArgs, nil
		}
		i := slices.IndexFunc(args, func(s string) bool {
			return strings.HasPrefix(s, "-")
		})
		if i < 0 {
			i = len(args)
		} else if args[i] == "-" {
			i++
		}
		if i == 0 {
			panic("parsing command line arguments did not error on " + args[0])
		}
		unknownArgs = append(unknownArgs, args[:i]...)
		args = args[i:]
	}
}

func boolVar(f *flag.FlagSet, dst *bool, name string, alias ...string) {
	f.BoolVar(dst, name, *dst, "")
	for _, name := range alias {
		f.BoolVar(dst, name, *dst, "")
	}
}

func customVar(f *flag.FlagSet, dst flag.Value, name string, alias ...string) {
	f.Var(dst, name, "")
	for _, name := range alias {
		f.Var(dst, name, "")
	}
}
