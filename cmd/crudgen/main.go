// Package main provides the crudgen command.
package main

import (
	"os"

	"github.com/leapstack-labs/crudgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
