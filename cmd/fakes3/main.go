package main

import (
	"os"

	"fakes3/cmd/fakes3/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
