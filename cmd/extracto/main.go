package main

import (
	"os"

	"github.com/extracto-dev/extracto/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
