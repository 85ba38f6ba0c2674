package main

import (
	"os"

	"github.com/vzahorui/my-finance-explorer/cmd/finance/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
