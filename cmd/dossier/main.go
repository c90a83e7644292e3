package main

import (
	"os"

	"dossier/cmd/dossier/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
