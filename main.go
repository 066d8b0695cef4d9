package main

import (
	"os"

	"github.com/leap-app/leap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
