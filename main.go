package main

import (
	"context"
	"io"
	"log"
	"os"
)

func init() {
	// The net/http server logs through the default logger; everything the
	// user should see goes through the command output instead.
	log.SetOutput(io.Discard)
}

func main() {
	os.Exit(root(context.Background(), os.Args[1:]...))
}
