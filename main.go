// Package main is the entry point for the kickback CLI.
package main

import "kickback.dev/pkg/kickback/cmd"

func main() {
	cmd.Execute()
}
