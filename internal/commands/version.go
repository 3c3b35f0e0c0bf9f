// Copyright (c) Microsoft Corporation. All rights reserved.

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microsoft/devhost/internal/version"
	"github.com/microsoft/devhost/pkg/logger"
)

func NewVersionCommand(log *logger.Logger) (*cobra.Command, error) {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Prints version information",
		Long:  `Prints version information.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			versionStr, err := json.Marshal(version.Version())
			if err != nil {
				log.Error(err, "Could not serialize version information")
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(versionStr))
			return nil
		},
	}

	return versionCmd, nil
}
