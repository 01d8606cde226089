// Package main provides the lintpromote CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/lintpromote/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
