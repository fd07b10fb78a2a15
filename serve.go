package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/loopwork/echotrace/internal/echotrace"
	"github.com/loopwork/echotrace/internal/print/human"
	"github.com/loopwork/echotrace/internal/tracelog"
	"golang.org/x/time/rate"
)

const serveUsage = `
Usage:	echotrace serve [options]

Example:

   $ echotrace serve -l localhost:3000
   2023-07-12T10:32:11Z f6e9acbc-0543-47df-9413-b99f569cfa3b GET /foo?bar=baz 200 173
   ...

Options:
   -b, --banner text            Banner printed in the first line of the report
   -c, --config path            Path to the echotrace configuration file (overrides ECHOTRACECONFIG)
   -h, --help                   Show this usage information
   -l, --listen addr            Address to listen on (default to the configuration)
       --max-chunk-size size    Largest single read from a request body stream (default to 8 MiB)
       --max-rps count          Maximum number of requests served per second (default to no limit)
       --no-trace               Disable recording of exchanges to the trace log
       --trace path             Path to the trace log (overrides the configuration)
       --trace-compression type Compression of trace records, one of snappy, zstd, none
`

func serve(ctx context.Context, args []string) error {
	var (
		listen           string
		banner           string
		maxChunkSize     human.Bytes
		maxRPS           human.Count
		noTrace          = false
		tracePath        human.Path
		traceCompression compression
	)

	flagSet := newFlagSet("echotrace serve", serveUsage)
	flagSet.StringVar(&listen, "l", "", "")
	flagSet.StringVar(&listen, "listen", "", "")
	flagSet.StringVar(&banner, "b", "", "")
	flagSet.StringVar(&banner, "banner", "", "")
	customVar(flagSet, &maxChunkSize, "max-chunk-size")
	customVar(flagSet, &maxRPS, "max-rps")
	boolVar(flagSet, &noTrace, "no-trace")
	customVar(flagSet, &tracePath, "trace")
	customVar(flagSet, &traceCompression, "trace-compression")

	args, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return errors.New(`expected no arguments`)
	}

	config, err := echotrace.LoadConfig()
	if err != nil {
		return err
	}
	if listen == "" {
		listen = config.Server.Listen
	}
	if banner != "" {
		config.Server.Banner = banner
	}
	if maxChunkSize != 0 {
		config.Server.MaxChunkSize = maxChunkSize
	}
	if maxRPS != 0 {
		config.Server.MaxRPS = maxRPS
	}
	if tracePath != "" {
		config.Trace.Location = echotrace.NullableValue(tracePath)
	}
	if traceCompression != "" {
		config.Trace.Compression = string(traceCompression)
	}

	server := &echotrace.Server{
		Handler: config.NewHandler(),
		Log:     os.Stdout,
	}

	if config.Server.MaxRPS > 0 {
		limit := rate.Limit(config.Server.MaxRPS)
		server.Limiter = rate.NewLimiter(limit, int(config.Server.MaxRPS))
	}

	if location, ok := config.Trace.Location.Value(); ok && !noTrace {
		c, err := tracelog.ParseCompression(config.Trace.Compression)
		if err != nil {
			return err
		}
		path, err := location.Resolve()
		if err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("could not open trace log: %w", err)
		}
		defer f.Close()
		server.Trace = tracelog.NewWriter(f, c)
		if info, err := f.Stat(); err == nil && info.Size() > 0 {
			server.Trace.Resume()
		}
	}

	l, err := net.Listen("tcp", listen)
	if err != nil {
		return err
	}
	defer l.Close()

	fmt.Fprintf(os.Stderr, "echotrace serving on %s\n", l.Addr())

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return server.Serve(ctx, l)
}
