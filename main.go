// Package main is the entry point for the mutlab CLI.
package main

import "mutlab.dev/pkg/mutlab/cmd"

func main() {
	cmd.Execute()
}
