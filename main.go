package main

import (
	"os"

	"github.com/kpaulsen/itemforge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
