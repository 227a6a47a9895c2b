package main

import (
	"os"

	"github.com/bramgg/snapy/cmd/snapy/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
