package main

import (
	"os"

	"github.com/mkossman/noted-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
