// Copyright (c) Microsoft Corporation. All rights reserved.

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/microsoft/devhost/internal/config"
	"github.com/microsoft/devhost/internal/dap"
	"github.com/microsoft/devhost/internal/debug"
	"github.com/microsoft/devhost/internal/host"
	"github.com/microsoft/devhost/pkg/logger"
	"github.com/microsoft/devhost/pkg/process"
)

type resolveOptions struct {
	folder       string
	settingsFile string
	configFile   string
	adapterAddr  string
}

// NewResolveCommand resolves a debug configuration the way the editor host
// would before starting a session: user settings merge, platform defaults,
// envFile expansion, attach target selection.
func NewResolveCommand(log *logger.Logger) (*cobra.Command, error) {
	opts := &resolveOptions{}

	resolveCmd := &cobra.Command{
		Use:   "resolve [configuration.json]",
		Short: "Resolves a debug configuration",
		Long: `Resolves a debug configuration, applying user settings, platform defaults
	and envFile expansion. Reads the configuration from the given file, or from
	standard input when no file is given, and prints the resolved configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args, opts, log)
		},
	}

	flags := resolveCmd.Flags()
	flags.StringVar(&opts.folder, "folder", "", "Workspace folder the configuration belongs to (defaults to the current directory)")
	flags.StringVar(&opts.settingsFile, "settings", "", "JSON file with user settings to merge into the configuration")
	flags.StringVar(&opts.configFile, "config", "", "Tool configuration file (defaults to devhost.yaml in the workspace folder)")
	flags.StringVar(&opts.adapterAddr, "adapter", "", "TCP address of a debug adapter to hand the resolved configuration to")

	return resolveCmd, nil
}

func runResolve(cmd *cobra.Command, args []string, opts *resolveOptions, log *logger.Logger) error {
	ctx := cmd.Context()

	folder, err := workspaceFolder(opts.folder)
	if err != nil {
		return err
	}

	cfg, err := readConfiguration(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	userSettings, err := readUserSettings(opts.settingsFile)
	if err != nil {
		return err
	}

	toolConfig, err := config.Load(opts.configFile, folder.Path)
	if err != nil {
		return err
	}

	console := host.NewConsoleHost(cmd.InOrStdin(), cmd.OutOrStdout(), log.Logger)
	executor := process.NewOSExecutor(log.Logger)
	pickers := debug.NewPickerFactory(console, executor, log.Logger)
	certs := debug.NewCertManager(toolConfig.DotnetPath, executor, console, console, log.Logger)

	resolver := debug.NewResolver(log.Logger, console, pickers, debug.CurrentPlatform(), debug.WithDevCerts(certs))

	resolved, err := resolver.Resolve(ctx, folder, cfg, userSettings)
	if err != nil {
		if errors.Is(err, debug.ErrResolutionCancelled) {
			log.V(1).Info("configuration resolution cancelled")
			return nil
		}
		return err
	}
	if resolved == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "{}")
		return nil
	}

	output, err := json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		return fmt.Errorf("could not serialize the resolved configuration: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(output))

	if opts.adapterAddr != "" {
		return handOff(cmd, resolved, opts.adapterAddr, log)
	}
	return nil
}

func handOff(cmd *cobra.Command, resolved *debug.Configuration, address string, log *logger.Logger) error {
	transport, err := dap.DialTCP(cmd.Context(), address)
	if err != nil {
		return err
	}

	session := dap.NewSession(transport, log.Logger)
	defer session.Close()

	if err := session.SendConfiguration(resolved); err != nil {
		return fmt.Errorf("failed to hand configuration to the debug adapter: %w", err)
	}

	log.Info("configuration sent to debug adapter", "address", address, "sessionID", session.ID)
	return nil
}

func workspaceFolder(path string) (*host.WorkspaceFolder, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not determine the current directory: %w", err)
		}
		path = cwd
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace folder '%s': %w", path, err)
	}

	return &host.WorkspaceFolder{
		Name: filepath.Base(absPath),
		Path: absPath,
	}, nil
}

func readConfiguration(args []string, stdin io.Reader) (*debug.Configuration, error) {
	var content []byte
	var err error
	var source string

	if len(args) > 0 {
		source = args[0]
		content, err = os.ReadFile(args[0])
	} else {
		source = "standard input"
		content, err = io.ReadAll(stdin)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read the debug configuration from %s: %w", source, err)
	}

	cfg := &debug.Configuration{}
	if len(content) > 0 {
		if err := json.Unmarshal(content, cfg); err != nil {
			return nil, fmt.Errorf("could not parse the debug configuration from %s: %w", source, err)
		}
	}

	return cfg, nil
}

func readUserSettings(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read user settings from %s: %w", path, err)
	}

	var settings map[string]any
	if err := json.Unmarshal(content, &settings); err != nil {
		return nil, fmt.Errorf("could not parse user settings from %s: %w", path, err)
	}

	return settings, nil
}
