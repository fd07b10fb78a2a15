package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/loopwork/echotrace/internal/echotrace"
	"github.com/loopwork/echotrace/internal/print/human"
	"github.com/loopwork/echotrace/internal/wasihttp"
)

const echoUsage = `
Usage:	echotrace echo [options] [path]

The command reads a single HTTP/1.x request in wire format from the given
file (or from stdin when the path is "-" or absent), runs the echo handler on
it, and prints the diagnostic report on stdout.

Example:

   $ printf 'GET /foo?bar=baz HTTP/1.1\r\nContent-Length: 0\r\n\r\n' | echotrace echo
   *** echotrace ***
   ...

Options:
   -b, --banner text          Banner printed in the first line of the report
   -c, --config path          Path to the echotrace configuration file (overrides ECHOTRACECONFIG)
   -h, --help                 Show this usage information
       --max-chunk-size size  Largest single read from the request body stream (default to 8 MiB)
`

func echo(ctx context.Context, args []string) error {
	var (
		banner       string
		maxChunkSize human.Bytes
	)

	flagSet := newFlagSet("echotrace echo", echoUsage)
	flagSet.StringVar(&banner, "b", "", "")
	flagSet.StringVar(&banner, "banner", "", "")
	customVar(flagSet, &maxChunkSize, "max-chunk-size")

	args, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}

	input := io.Reader(os.Stdin)
	switch {
	case len(args) == 0:
	case len(args) == 1 && args[0] == "-":
	case len(args) == 1:
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	default:
		return errors.New(`expected at most one request file as argument`)
	}

	config, err := echotrace.LoadConfig()
	if err != nil {
		return err
	}
	if banner != "" {
		config.Server.Banner = banner
	}
	if maxChunkSize != 0 {
		config.Server.MaxChunkSize = maxChunkSize
	}

	r, err := http.ReadRequest(bufio.NewReader(input))
	if err != nil {
		return fmt.Errorf("could not parse HTTP request: %w", err)
	}

	recorder := wasihttp.NewResponseRecorder()
	handler := config.NewHandler()
	handler.Handle(wasihttp.NewIncomingRequest(r), recorder)

	_, err = os.Stdout.Write(recorder.Response().BodyBytes())
	return err
}
