// Copyright (c) Microsoft Corporation. All rights reserved.

package debug

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/go-logr/logr"

	"github.com/microsoft/devhost/internal/host"
	"github.com/microsoft/devhost/pkg/process"
)

// Exit codes reported by `dotnet dev-certs https --check`.
const (
	devCertExitOK                    int32 = 0
	devCertExitNoValidCertificate    int32 = 6
	devCertExitCertificateNotTrusted int32 = 7
)

const devCertToolTimeout = 2 * time.Minute

const (
	actionYes        = "Yes"
	actionNotNow     = "Not Now"
	actionShowOutput = "Show Output"
)

// CertManager drives the `dotnet dev-certs https` CLI to check, create, and
// trust the local development HTTPS certificate. Failures are reported through
// the output channel and an optional warning dialog; they are never fatal.
type CertManager struct {
	dotnetPath string
	executor   process.Executor
	messages   host.MessageService
	output     host.OutputChannel
	log        logr.Logger
}

func NewCertManager(dotnetPath string, executor process.Executor, messages host.MessageService, output host.OutputChannel, log logr.Logger) *CertManager {
	if dotnetPath == "" {
		dotnetPath = "dotnet"
	}
	return &CertManager{
		dotnetPath: dotnetPath,
		executor:   executor,
		messages:   messages,
		output:     output,
		log:        log.WithName("dev-certs"),
	}
}

// Check reports whether a trusted development certificate is present.
// The returned exit code distinguishes "no valid certificate" from "not trusted".
func (m *CertManager) Check(ctx context.Context) (int32, string, error) {
	return m.runDevCerts(ctx, "--check", "--trust")
}

// Create requests creation of a new self-signed development certificate.
func (m *CertManager) Create(ctx context.Context) error {
	exitCode, out, err := m.runDevCerts(ctx)
	if err != nil {
		return err
	}
	if exitCode != devCertExitOK {
		return fmt.Errorf("dotnet dev-certs https exited with code %d: %s", exitCode, out)
	}
	return nil
}

// Trust asks the OS to trust the development certificate.
// The OS may show its own elevation or confirmation prompt.
func (m *CertManager) Trust(ctx context.Context) error {
	exitCode, out, err := m.runDevCerts(ctx, "--trust")
	if err != nil {
		return err
	}
	if exitCode != devCertExitOK {
		return fmt.Errorf("dotnet dev-certs https --trust exited with code %d: %s", exitCode, out)
	}
	return nil
}

// EnsureTrusted checks for a trusted development certificate and, when it is
// missing or untrusted, offers to create and trust one. It never fails the
// caller: every problem ends up in the output channel and the log.
func (m *CertManager) EnsureTrusted(ctx context.Context) {
	exitCode, out, err := m.Check(ctx)
	if err != nil {
		m.report(ctx, "Could not check the development certificate status.", out, err)
		return
	}

	switch exitCode {
	case devCertExitOK:
		m.log.V(1).Info("development certificate is present and trusted")
		return

	case devCertExitNoValidCertificate, devCertExitCertificateNotTrusted:
		selection, dlgErr := m.messages.ShowInformationMessage(ctx,
			"The ASP.NET Core developer certificate is not trusted. Would you like to create and trust one? A security prompt may be shown.",
			actionYes, actionNotNow)
		if dlgErr != nil || selection != actionYes {
			return
		}

		if exitCode == devCertExitNoValidCertificate {
			if createErr := m.Create(ctx); createErr != nil {
				m.report(ctx, "Could not create the development certificate.", "", createErr)
				return
			}
		}

		if trustErr := m.Trust(ctx); trustErr != nil {
			m.report(ctx, "Could not trust the development certificate.", "", trustErr)
			return
		}

		m.log.Info("development certificate created and trusted")

	default:
		m.report(ctx, fmt.Sprintf("Checking the development certificate failed with exit code %d.", exitCode), out, nil)
	}
}

func (m *CertManager) runDevCerts(ctx context.Context, args ...string) (int32, string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, devCertToolTimeout)
	defer cancel()

	cmdArgs := append([]string{"dev-certs", "https"}, args...)
	cmd := exec.CommandContext(timeoutCtx, m.dotnetPath, cmdArgs...)

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	exitCode, err := process.RunWithTimeout(timeoutCtx, m.executor, cmd)
	return exitCode, combined.String(), err
}

func (m *CertManager) report(ctx context.Context, message string, toolOutput string, err error) {
	if err != nil {
		m.log.Error(err, message)
	} else {
		m.log.Info(message)
	}

	m.output.AppendLine(message)
	if toolOutput != "" {
		m.output.AppendLine(toolOutput)
	}
	if err != nil {
		m.output.AppendLine(err.Error())
	}

	selection, dlgErr := m.messages.ShowWarningMessage(ctx, message, actionShowOutput)
	if dlgErr == nil && selection == actionShowOutput {
		m.output.Show()
	}
}
