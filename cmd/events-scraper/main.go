package main

import (
	"os"

	"github.com/shareef6907/BahrainNights-sub004/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(cli.ExitError)
	}
}
