// Package main is the posesim command itself.
package main

import (
	"os"

	"go.viam.com/dualpose/cli"
	"go.viam.com/dualpose/logging"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logging.Global().Error(err)
		os.Exit(1)
	}
}
