package main

import (
	"os"

	"github.com/dmitrymomot/authflow/cmd/authflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
