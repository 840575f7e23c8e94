// Package main is the entry point for the pyr CLI tool.
package main

import (
	"github.com/hargabyte/pyr/internal/cmd"
)

func main() {
	cmd.Execute()
}
