// Package main provides the scopt CLI.
package main

import (
	"os"

	"github.com/born-ml/scopt/cmd/scopt/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
