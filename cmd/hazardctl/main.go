// Command hazardctl runs hazard verification against a local report history
// file, prints corroboration aggregates, and generates history fixtures.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
