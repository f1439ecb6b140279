// Package main provides the census CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/census/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
