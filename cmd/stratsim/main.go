package main

import (
	"os"

	"stratsim/cmd/stratsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
