package main

import (
	"fmt"
	"os"

	"example.com/swarmpolicy/lib/cli"
)

// check is swarmpolicy check, for CI jobs that only need the trials.
func main() {
	root := cli.Root()
	root.SetArgs(append([]string{"check"}, os.Args[1:]...))
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
