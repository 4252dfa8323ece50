package main

import (
	"fmt"
	"os"

	blcli "blocksched/internal/cli"
)

// Populated by the linker at release build time.
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	err := blcli.Execute(os.Args, blcli.BuildArgs{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "blocksched: %v\n", err)
		os.Exit(1)
	}
}
