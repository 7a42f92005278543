// Package main is the entry point for the amctl CLI client.
package main

import (
	"github.com/donaldgifford/automerch/cmd/amctl/cmd"
)

func main() {
	cmd.Execute()
}
