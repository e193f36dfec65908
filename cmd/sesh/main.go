// Command sesh saves and restores named workspace session files.
package main

import (
	"os"

	"github.com/harun/sesh/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
