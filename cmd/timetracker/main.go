// Package main is the entry point for the timetracker agent.
package main

import (
	"os"

	"github.com/jqntn/timetracker/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
