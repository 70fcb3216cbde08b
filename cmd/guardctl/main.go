// Command guardctl classifies and sanitizes values from the command line
// using the same rules as the HTTP input guard.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
