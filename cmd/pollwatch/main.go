package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grovetools/pollwatch/cli"
	"github.com/grovetools/pollwatch/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := cmd.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		cli.NewErrorHandler(cmd.ProgramName, cli.GetOptions(rootCmd).Verbose).Handle(err)
		os.Exit(1)
	}
}
