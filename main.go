package main

import (
	"os"

	"github.com/herdplan/herdplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
