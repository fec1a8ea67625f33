package main

import (
	"os"

	"github.com/gridci/gridci/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
