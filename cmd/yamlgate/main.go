package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/rahulwagh60/actions/internal/cli"
	"github.com/rahulwagh60/actions/pkg/version"
)

func main() {
	err := fang.Execute(
		context.Background(),
		cli.NewRootCmd(),
		fang.WithVersion(version.GetVersion()),
		fang.WithErrorHandler(cli.ErrorHandler),
	)
	if err != nil {
		os.Exit(1)
	}
}
