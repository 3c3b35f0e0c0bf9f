// Copyright (c) Microsoft Corporation. All rights reserved.

package commands

import (
	"github.com/spf13/cobra"

	"github.com/microsoft/devhost/internal/backend"
	"github.com/microsoft/devhost/internal/config"
	"github.com/microsoft/devhost/pkg/logger"
	"github.com/microsoft/devhost/pkg/process"
)

// NewServeCommand runs the language server under supervision until interrupted.
func NewServeCommand(log *logger.Logger) (*cobra.Command, error) {
	var configFile string
	var folder string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Runs the language server and keeps it running",
		Long: `Runs the language server described by the tool configuration file,
	restarting it when it exits unexpectedly or when its settings file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			workspace, err := workspaceFolder(folder)
			if err != nil {
				return err
			}

			toolConfig, err := config.Load(configFile, workspace.Path)
			if err != nil {
				return err
			}

			executor := process.NewOSExecutor(log.Logger)
			manager := backend.NewManager(toolConfig.Server, executor, log.Logger)
			return manager.Run(cmd.Context())
		},
	}

	flags := serveCmd.Flags()
	flags.StringVar(&configFile, "config", "", "Tool configuration file (defaults to devhost.yaml in the workspace folder)")
	flags.StringVar(&folder, "folder", "", "Workspace folder (defaults to the current directory)")

	return serveCmd, nil
}
