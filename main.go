package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/anicoll/envmonitor/cmd"
)

func main() {
	app := &cli.App{
		Name:   "envmonitor",
		Usage:  "shows sensor readings and publishes them to mqtt",
		Action: cmd.MonitorCommand,
		Flags:  cmd.Flags(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
