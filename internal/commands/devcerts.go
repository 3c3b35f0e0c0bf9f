// Copyright (c) Microsoft Corporation. All rights reserved.

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microsoft/devhost/internal/debug"
	"github.com/microsoft/devhost/internal/host"
	"github.com/microsoft/devhost/pkg/logger"
	"github.com/microsoft/devhost/pkg/process"
)

// NewDevCertsCommand manages the ASP.NET Core development HTTPS certificate
// through the dotnet dev-certs tool.
func NewDevCertsCommand(log *logger.Logger) (*cobra.Command, error) {
	var dotnetPath string

	devCertsCmd := &cobra.Command{
		Use:   "dev-certs",
		Short: "Manages the local development HTTPS certificate",
	}
	devCertsCmd.PersistentFlags().StringVar(&dotnetPath, "dotnet", "dotnet", "Path to the dotnet host executable")

	certManager := func(cmd *cobra.Command) *debug.CertManager {
		console := host.NewConsoleHost(cmd.InOrStdin(), cmd.OutOrStdout(), log.Logger)
		executor := process.NewOSExecutor(log.Logger)
		return debug.NewCertManager(dotnetPath, executor, console, console, log.Logger)
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Checks whether a trusted development certificate exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exitCode, _, err := certManager(cmd).Check(cmd.Context())
			if err != nil {
				return err
			}
			switch exitCode {
			case 0:
				fmt.Fprintln(cmd.OutOrStdout(), "A trusted development certificate is present.")
				return nil
			default:
				return fmt.Errorf("no trusted development certificate (dotnet dev-certs exit code %d)", exitCode)
			}
		},
	}

	trustCmd := &cobra.Command{
		Use:   "trust",
		Short: "Trusts the development certificate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return certManager(cmd).Trust(cmd.Context())
		},
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Creates a self-signed development certificate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return certManager(cmd).Create(cmd.Context())
		},
	}

	ensureCmd := &cobra.Command{
		Use:   "ensure",
		Short: "Interactively creates and trusts the development certificate if needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			certManager(cmd).EnsureTrusted(cmd.Context())
			return nil
		},
	}

	devCertsCmd.AddCommand(checkCmd, trustCmd, createCmd, ensureCmd)
	return devCertsCmd, nil
}
