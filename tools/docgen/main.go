// Package main generates CLI reference documentation from the amctl command tree.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/donaldgifford/automerch/cmd/amctl/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	flag.Parse()

	if err := os.MkdirAll(*output, 0o750); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	if err := generate(*output); err != nil {
		log.Fatalf("generating docs: %v", err)
	}

	fmt.Printf("CLI docs generated in %s/\n", *output)
}

func generate(dir string) error {
	root := cmd.Root()
	root.DisableAutoGenTag = true
	return doc.GenMarkdownTree(root, dir)
}
