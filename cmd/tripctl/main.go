// Package main is the entry point for tripctl, the marketplace listing client.
package main

import "github.com/donaldgifford/trip-market/cmd/tripctl/cmd"

func main() {
	cmd.Execute()
}
