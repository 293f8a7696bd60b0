package main

import (
	"fmt"
	"os"

	"github.com/DeluxeRaph/bera-reth/cmd/berad/launcher"
)

func main() {
	if err := launcher.Launch(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
