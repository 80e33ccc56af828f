package main

import (
	"fmt"
	"os"

	"example.com/swarmpolicy/lib/cli"
)

func main() {
	root := cli.Root()
	root.SetArgs(append([]string{"serve"}, os.Args[1:]...))
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
