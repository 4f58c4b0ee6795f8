// Command supermodel edits an entity model and generates Go types and SQLite
// tables from it.
package main

import "github.com/mesh-intelligence/supermodel/internal/cli"

func main() {
	cli.Execute()
}
