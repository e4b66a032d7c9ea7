// Package main is the entry point for the crv command-line client.
package main

import (
	"os"

	"github.com/ericfisherdev/codereview/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
