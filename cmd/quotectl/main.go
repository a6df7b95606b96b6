package main

import (
	"os"

	"quoteforge/cmd/quotectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
