// Package main is the entry point for the knawat CLI.
package main

import (
	"fmt"
	"os"

	"github.com/knawat/mp-go/cmd/knawat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "knawat: %v\n", err)
		os.Exit(1)
	}
}
