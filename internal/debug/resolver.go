// Copyright (c) Microsoft Corporation. All rights reserved.

package debug

import (
	"context"
	"errors"
	"runtime"

	"github.com/go-logr/logr"

	"github.com/microsoft/devhost/internal/envfile"
	"github.com/microsoft/devhost/internal/host"
	"github.com/microsoft/devhost/pkg/pointers"
	"github.com/microsoft/devhost/pkg/resiliency"
	"github.com/microsoft/devhost/pkg/slices"
)

// ErrResolutionCancelled signals that the user abandoned resolution
// (for example by dismissing the process picker). The host must not
// fall back to its own configuration prompt in this case.
var ErrResolutionCancelled = errors.New("debug configuration resolution was cancelled")

// Platform describes where the resolver runs. It is a struct (rather than
// direct runtime lookups) so tests can exercise every platform branch.
type Platform struct {
	OS   string
	Arch string

	// RemoteName identifies the remote context the editor is connected to
	// ("wsl", "ssh-remote", ...). Empty for a local session.
	RemoteName string
}

func CurrentPlatform() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// Remote contexts in which the dev certificate flow must never run:
// the certificate store being modified would not be the one the browser uses.
var devCertExcludedRemotes = []string{"wsl", "ssh-remote"}

const devCertExcludedOS = "linux"

// FallbackResolver supplies a configuration when the incoming one is empty,
// typically by delegating to another installed extension.
type FallbackResolver interface {
	ResolveEmpty(ctx context.Context, folder *host.WorkspaceFolder) (*Configuration, error)
}

// Resolver enriches raw debug configurations until they are complete enough
// for the debugger backend, or signals that the host should prompt instead.
type Resolver struct {
	log      logr.Logger
	messages host.MessageService
	pickers  PickerFactory
	certs    *CertManager
	platform Platform
	fallback FallbackResolver
}

type ResolverOption func(*Resolver)

// WithFallback registers a resolver consulted for empty configurations.
func WithFallback(fallback FallbackResolver) ResolverOption {
	return func(r *Resolver) {
		r.fallback = fallback
	}
}

// WithDevCerts enables the developer certificate bootstrap flow.
func WithDevCerts(certs *CertManager) ResolverOption {
	return func(r *Resolver) {
		r.certs = certs
	}
}

func NewResolver(log logr.Logger, messages host.MessageService, pickers PickerFactory, platform Platform, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		log:      log.WithName("debug-resolver"),
		messages: messages,
		pickers:  pickers,
		platform: platform,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fills in the missing pieces of cfg and returns it.
// A nil configuration with a nil error means "no changes, let the host prompt
// for a configuration". ErrResolutionCancelled means the user abandoned
// resolution and the host must abort silently.
//
// cfg is mutated in place; the returned pointer is cfg itself.
func (r *Resolver) Resolve(ctx context.Context, folder *host.WorkspaceFolder, cfg *Configuration, userSettings map[string]any) (*Configuration, error) {
	if cfg.IsEmpty() {
		if r.fallback != nil {
			r.log.V(1).Info("empty configuration, deferring to fallback resolver")
			return r.fallback.ResolveEmpty(ctx, folder)
		}
		r.log.V(1).Info("empty configuration and no fallback resolver, host will prompt")
		return nil, nil
	}

	cfg.ApplyUserSettings(userSettings)

	if cfg.Type == "" {
		// Not a configuration we can resolve; the host prompts the user.
		r.log.Info("configuration has no resolvable type")
		_, _ = r.messages.ShowErrorMessage(ctx, "The debug configuration is missing a 'type' and cannot be resolved.", false)
		return nil, nil
	}

	switch cfg.Request {
	case RequestLaunch:
		if err := r.resolveLaunch(ctx, folder, cfg); err != nil {
			return nil, err
		}
	case RequestAttach:
		if err := r.resolveAttach(ctx, cfg); err != nil {
			return nil, err
		}
	}

	if r.shouldCheckDevCerts(cfg) {
		// Deliberately detached: the certificate flow reports through its own
		// output surface and must never delay or fail the debug session.
		certs := r.certs
		resiliency.RunDetached(r.log, func() {
			certs.EnsureTrusted(context.Background())
		})
	}

	return cfg, nil
}

func (r *Resolver) resolveLaunch(ctx context.Context, folder *host.WorkspaceFolder, cfg *Configuration) error {
	if cfg.Cwd == "" && cfg.PipeTransport == nil && folder != nil {
		cfg.Cwd = folder.Path
	}

	if cfg.Console == "" {
		cfg.Console = ConsoleInternal
	}

	if cfg.EnvFile != "" {
		result, err := envfile.Parse(cfg.EnvFile)
		if err != nil {
			return err
		}

		if result.Warning != "" {
			warning := result.Warning
			resiliency.RunDetached(r.log, func() {
				_, _ = r.messages.ShowWarningMessage(context.Background(), warning)
			})
		}

		cfg.Env = envfile.Merge(cfg.Env, result.Env)
		cfg.EnvFile = ""
	}

	return nil
}

func (r *Resolver) resolveAttach(ctx context.Context, cfg *Configuration) error {
	if cfg.ProcessID != 0 || cfg.ProcessName != "" {
		// The attach target was specified explicitly; nothing to pick.
		return nil
	}

	remote := cfg.PipeTransport != nil

	var picker ProcessPicker
	if remote {
		picker = r.pickers.RemotePicker(cfg.PipeTransport)
	} else {
		picker = r.pickers.LocalPicker()
	}

	item, err := picker.PickProcess(ctx)
	if err != nil {
		return err
	}
	if item == nil {
		_, _ = r.messages.ShowErrorMessage(ctx, "Process not selected.", true)
		return ErrResolutionCancelled
	}

	cfg.ProcessID = item.Pid
	r.log.V(1).Info("attach target selected", "PID", item.Pid, "name", item.Name)

	// Translation flags are only known for local processes; the architecture
	// of a remote debuggee cannot be inferred from this machine.
	if !remote && r.platform.OS == "darwin" && r.platform.Arch == "arm64" && cfg.TargetArchitecture == "" {
		if item.IsTranslated() {
			cfg.TargetArchitecture = "x86_64"
		} else {
			cfg.TargetArchitecture = "arm64"
		}
	}

	return nil
}

func (r *Resolver) shouldCheckDevCerts(cfg *Configuration) bool {
	if r.certs == nil || pointers.NotTrue(cfg.CheckForDevCert) {
		return false
	}
	if r.platform.OS == devCertExcludedOS {
		return false
	}
	if slices.Contains(devCertExcludedRemotes, r.platform.RemoteName) {
		return false
	}
	return true
}
