// Package main is the entry point for the automerch server.
package main

import (
	"os"

	"github.com/donaldgifford/automerch/cmd/automerch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
