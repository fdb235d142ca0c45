package main

import (
	"os"

	"github.com/jask/lendtrack/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		cli.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}
