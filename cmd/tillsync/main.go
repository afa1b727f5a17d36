package main

import (
	"fmt"
	"os"

	"github.com/warunglabs/tillsync/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tillsync: %v\n", err)
		os.Exit(1)
	}
}
