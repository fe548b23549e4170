// Command hfeflow runs the heavy-flavour electron flow analysis over event
// files or catalogued datasets and manages the dataset catalog.
package main

import (
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
