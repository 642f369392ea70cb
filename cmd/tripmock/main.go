// Package main is the entry point for tripmock, the mock marketplace backend.
package main

import (
	"os"

	"github.com/donaldgifford/trip-market/cmd/tripmock/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
