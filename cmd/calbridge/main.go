package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/custodia-labs/calbridge/internal/adapters/driving/cli"
	"github.com/custodia-labs/calbridge/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Pre-scan the global flags so service wiring can honor them
	// before cobra parses the command line for real.
	flags := pflag.NewFlagSet("calbridge", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Usage = func() {}
	verbose := flags.BoolP("verbose", "v", false, "")
	configDir := flags.String("config", "", "")
	storeBackend := flags.String("store", "file", "")
	_ = flags.Parse(os.Args[1:])

	logger.SetVerbose(*verbose)

	cleanup, err := cli.Wire(*configDir, *storeBackend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}
