package main

import (
	"os"

	"conlang/cmd/conlang/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
