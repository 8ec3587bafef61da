// Command cohere calls the Cohere API from the command line.
//
// Every operation is a subcommand taking its parameters as a JSON object:
//
//	cohere tokenize -p '{"text":"Hello, world!","model":"base"}'
//	cohere chat --stream -f request.json
//
// Settings come from --config, a .env file and COHERE_* environment variables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root, a := newRootCmd()
	root.Version = version + " (commit: " + commit + ")"

	err := root.ExecuteContext(ctx)
	a.Close()
	stop()
	if err != nil {
		os.Exit(1)
	}
}
