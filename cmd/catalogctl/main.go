// Command catalogctl is a terminal client of the storefront API. It browses the
// paginated listing, runs debounced live search and samples selections either
// from the API or offline from a seed catalog.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
