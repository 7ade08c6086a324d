// Command kbase answers questions from a knowledge base built out of web
// pages, documents and text.
package main

import (
	"os"

	"github.com/custodia-labs/kbase/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
