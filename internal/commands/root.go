// Copyright (c) Microsoft Corporation. All rights reserved.

// Package commands implements the devhost command line interface.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microsoft/devhost/pkg/logger"
)

func NewRootCmd() (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   "devhost",
		Short: "Runs the C# development host",
		Long: `devhost mediates between an editor and the C#/.NET language and debugger backends.

	It resolves debug configurations, manages the language server process lifecycle,
	and bootstraps local development HTTPS certificates.`,
		SilenceUsage: true,
	}

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	log := logger.New("devhost")
	log.AddLevelFlag(rootCmd.PersistentFlags())
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		log.Flush()
	}

	var err error
	var cmd *cobra.Command

	if cmd, err = NewResolveCommand(log); cmd != nil {
		rootCmd.AddCommand(cmd)
	} else {
		return nil, fmt.Errorf("Could not set up 'resolve' command: %w", err)
	}

	if cmd, err = NewProcessesCommand(log); cmd != nil {
		rootCmd.AddCommand(cmd)
	} else {
		return nil, fmt.Errorf("Could not set up 'processes' command: %w", err)
	}

	if cmd, err = NewDevCertsCommand(log); cmd != nil {
		rootCmd.AddCommand(cmd)
	} else {
		return nil, fmt.Errorf("Could not set up 'dev-certs' command: %w", err)
	}

	if cmd, err = NewServeCommand(log); cmd != nil {
		rootCmd.AddCommand(cmd)
	} else {
		return nil, fmt.Errorf("Could not set up 'serve' command: %w", err)
	}

	if cmd, err = NewVersionCommand(log); cmd != nil {
		rootCmd.AddCommand(cmd)
	} else {
		return nil, fmt.Errorf("Could not set up 'version' command: %w", err)
	}

	return rootCmd, nil
}
