// Package main is the entry point for the hormetric CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/hormetric/cmd"
	"github.com/huangsam/hormetric/internal/iocache"
)

func main() {
	cmd.SetStoreManager(iocache.Manager)
	defer iocache.CloseStores()

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warn failed to stop profiling: %v\n", stopErr)
	}
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		iocache.CloseStores()
		os.Exit(1)
	}
}
