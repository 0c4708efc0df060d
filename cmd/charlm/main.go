package main

import (
	"fmt"
	"os"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	if err := NewCLI(fmt.Sprintf("%s (%s, %s)", Version, Commit, BuildDate)).Run(); err != nil {
		os.Exit(1)
	}
}
