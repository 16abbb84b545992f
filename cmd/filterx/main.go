package main

import (
	"os"

	"github.com/cwbudde/go-filterx/cmd/filterx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
