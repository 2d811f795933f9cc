// Package main provides the entry point for the sanad CLI.
package main

import (
	"os"

	"github.com/sanadlabs/sanad/cmd/sanad/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
