package main

import (
	"os"

	"github.com/rustyeddy/sequential/cmd/sequential/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
