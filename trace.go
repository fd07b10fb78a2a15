package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/loopwork/echotrace/internal/echotrace"
	"github.com/loopwork/echotrace/internal/print/human"
	"github.com/loopwork/echotrace/internal/tracelog"
	"gopkg.in/yaml.v3"
)

const traceUsage = `
Usage:	echotrace trace [options] [path]

The command prints the exchanges recorded in a trace log. When no path is
given, the trace log location from the configuration is used.

Example:

   $ echotrace trace ~/.echotrace/trace.log
   f6e9acbc-0543-47df-9413-b99f569cfa3b 2023-07-12T10:32:11Z GET /foo?bar=baz 200 173
   ...

Options:
   -c, --config path    Path to the echotrace configuration file (overrides ECHOTRACECONFIG)
   -h, --help           Show this usage information
   -n, --limit count    Limit the number of exchanges to print (default to no limit)
   -o, --output format  Output format, one of: text, json, yaml
`

func trace(ctx context.Context, args []string) error {
	var (
		limit  human.Count
		output = outputFormat("text")
	)

	flagSet := newFlagSet("echotrace trace", traceUsage)
	customVar(flagSet, &limit, "n", "limit")
	customVar(flagSet, &output, "o", "output")

	args, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}
	if limit == 0 {
		limit = math.MaxInt32
	}

	var path string
	switch len(args) {
	case 0:
		config, err := echotrace.LoadConfig()
		if err != nil {
			return err
		}
		location, ok := config.Trace.Location.Value()
		if !ok {
			return errors.New(`no trace log path given and none configured`)
		}
		if path, err = location.Resolve(); err != nil {
			return err
		}
	case 1:
		if path, err = human.Path(args[0]).Resolve(); err != nil {
			return err
		}
	default:
		return errors.New(`expected at most one trace log path as argument`)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := io.Writer(os.Stdout)
	jsonEncoder := json.NewEncoder(w)
	jsonEncoder.SetEscapeHTML(false)
	jsonEncoder.SetIndent("", "  ")
	yamlEncoder := yaml.NewEncoder(w)
	yamlEncoder.SetIndent(2)

	r := tracelog.NewReader(f)
	for n := human.Count(0); n < limit; n++ {
		exchange, err := r.ReadExchange()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch output {
		case "json":
			if err := jsonEncoder.Encode(exchange); err != nil {
				return err
			}
		case "yaml":
			if err := yamlEncoder.Encode(exchange); err != nil {
				return err
			}
		default:
			fmt.Fprintf(w, "%s %s %s %s %d %d\n",
				exchange.ID,
				exchange.Time.Format(time.RFC3339),
				exchange.Request.Method,
				exchange.Request.Path,
				exchange.Response.StatusCode,
				len(exchange.Response.Body),
			)
		}
	}
	if output == "yaml" {
		_ = yamlEncoder.Close()
	}
	return nil
}
