// Copyright (c) Microsoft Corporation. All rights reserved.

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microsoft/devhost/internal/processes"
	"github.com/microsoft/devhost/pkg/logger"
)

func NewProcessesCommand(log *logger.Logger) (*cobra.Command, error) {
	processesCmd := &cobra.Command{
		Use:   "processes",
		Short: "Lists processes a debugger could attach to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := processes.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("could not enumerate processes: %w", err)
			}

			for _, item := range items {
				if item.CommandLine != "" && item.CommandLine != item.Name {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", item.Label(), item.CommandLine)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), item.Label())
				}
			}
			return nil
		},
	}

	return processesCmd, nil
}
