// Copyright (c) Microsoft Corporation. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/microsoft/devhost/internal/commands"
)

const (
	errCommand = 1
	errSetup   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := commands.NewRootCmd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errSetup)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(errCommand)
	}
}
