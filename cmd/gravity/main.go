// Package main provides the gravity CLI.
//
// The CLI supports:
//   - render: Assemble the SQL statement described by YAML query documents
//   - config: Show the effective configuration
//   - version: Print build information
//
// Usage:
//
//	gravity [flags] <command>
package main

import (
	"os"
)

func main() {
	os.Exit(Execute())
}
