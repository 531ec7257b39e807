package main

import (
	"context"
	"os"
	"os/signal"

	"go.followtheprocess.codes/liquid/internal/cmd"
	"go.followtheprocess.codes/msg"
)

func main() {
	if err := run(); err != nil {
		msg.Error("%v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	command, err := cmd.Build()
	if err != nil {
		return err
	}

	return command.Execute(ctx)
}
