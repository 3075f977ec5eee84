package main

import (
	"os"

	"github.com/MrJamesThe3rd/spendlens/cmd/spendlens/internal/commands"
)

func main() {
	if err := commands.NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
