// Package main is the entry point for the opz CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/opz/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
