package main

import (
	"os"

	"github.com/Houssam365/campuShare/cmd/web/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
