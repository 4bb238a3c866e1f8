package main

import (
	"os"

	"github.com/ferama/prelay/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
