// Package main provides the CLI entry point for jsonbuilder, a tool that
// builds request executor payloads from the OpenAPI schema of each SRV.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sethvargo/go-envconfig"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)

	err := a.execute(ctx, os.Args[1:], envconfig.OsLookuper())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
