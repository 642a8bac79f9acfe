// Package main implements the taskstore command: a small CLI and HTTP server
// over the PostgreSQL task store.
//
// Run without a subcommand it prints the database it is configured to use
// and exits.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
