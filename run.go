package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/loopwork/echotrace/internal/echotrace"
	"github.com/stealthrocket/wasi-go"
	"github.com/stealthrocket/wasi-go/imports"
	"github.com/stealthrocket/wazergo"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/sys"
)

const runUsage = `
Usage:	echotrace run [options] [--] <module> [args...]

The command runs a WebAssembly (WASI) transformer module. An "echotrace"
host module is made available to the guest so it can discover the echo
configuration of its host, and sockets may be passed through so the guest
can serve requests itself.

Example:

   $ echotrace run -L localhost:3000 -- handler.wasm

Options:
   -c, --config path        Path to the echotrace configuration file (overrides ECHOTRACECONFIG)
   -D, --dial addr          Expose a socket connected to the specified address
       --dir dir            Expose a directory to the guest module
   -e, --env name=value     Pass an environment variable to the guest module
   -h, --help               Show this usage information
   -L, --listen addr        Expose a socket listening on the specified address
       --restrict           Do not automatically expose the environment to the guest module
   -S, --sockets extension  Enable a sockets extension, one of none, auto, path_open, wasmedgev1, wasmedgev2 (default to auto)
   -T, --trace              Enable strace-like logging of host function calls
`

func run(ctx context.Context, args []string) error {
	var (
		envs         stringList
		listens      stringList
		dials        stringList
		dirs         stringList
		socketsExt   = sockets("auto")
		restrict     = false
		traceSyscall = false
	)

	flagSet := newFlagSet("echotrace run", runUsage)
	customVar(flagSet, &envs, "e", "env")
	customVar(flagSet, &listens, "L", "listen")
	customVar(flagSet, &dials, "D", "dial")
	customVar(flagSet, &dirs, "dir")
	customVar(flagSet, &socketsExt, "S", "sockets")
	boolVar(flagSet, &traceSyscall, "T", "trace")
	boolVar(flagSet, &restrict, "restrict")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitCode(0)
		}
		return usageError("%s", err)
	}

	if !restrict {
		envs = append(os.Environ(), envs...)
	}
	args = flagSet.Args()
	if len(args) == 0 {
		return errors.New(`missing "--" separator before the module path`)
	}

	config, err := echotrace.LoadConfig()
	if err != nil {
		return err
	}

	wasmPath := args[0]
	wasmName := filepath.Base(wasmPath)
	wasmCode, err := os.ReadFile(wasmPath)
	if err != nil {
		return fmt.Errorf("could not read wasm file '%s': %w", wasmPath, err)
	}

	runtime := config.NewRuntime(ctx)
	defer runtime.Close(ctx)

	wasmModule, err := runtime.CompileModule(ctx, wasmCode)
	if err != nil {
		return err
	}
	defer wasmModule.Close(ctx)

	builder := imports.NewBuilder().
		WithName(wasmName).
		WithArgs(args[1:]...).
		WithEnv(envs...).
		WithDirs(dirs...).
		WithListens(listens...).
		WithDials(dials...).
		WithStdio(int(os.Stdin.Fd()), int(os.Stdout.Fd()), int(os.Stderr.Fd())).
		WithSocketsExtension(string(socketsExt), wasmModule)

	if traceSyscall {
		builder = builder.WithWrappers(func(system wasi.System) wasi.System {
			return wasi.Trace(os.Stderr, system)
		})
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var system wasi.System
	ctx, system, err = builder.Instantiate(ctx, runtime)
	if err != nil {
		return err
	}
	defer system.Close(ctx)

	instance := wazergo.MustInstantiate(ctx, runtime, echotrace.NewHostModule(),
		echotrace.WithBanner(config.Server.Banner),
		echotrace.WithMaxChunk(int(config.Server.MaxChunkSize)),
	)
	ctx = wazergo.WithModuleInstance(ctx, instance)

	return instantiate(ctx, runtime, wasmModule)
}

func instantiate(ctx context.Context, runtime wazero.Runtime, compiledModule wazero.CompiledModule) error {
	module, err := runtime.InstantiateModule(ctx, compiledModule, wazero.NewModuleConfig().
		WithStartFunctions())
	if err != nil {
		return err
	}
	defer module.Close(ctx)

	ctx, cancel := context.WithCancelCause(ctx)
	go func() {
		_, err := module.ExportedFunction("_start").Call(ctx)
		module.Close(ctx)
		cancel(err)
	}()

	<-ctx.Done()

	err = context.Cause(ctx)
	switch err {
	case context.Canceled, context.DeadlineExceeded:
		err = nil
	}

	switch e := err.(type) {
	case *sys.ExitError:
		if rc := e.ExitCode(); rc != 0 {
			return exitCode(rc)
		}
		err = nil
	}

	return err
}
