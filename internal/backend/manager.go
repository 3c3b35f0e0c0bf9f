// Copyright (c) Microsoft Corporation. All rights reserved.

// Package backend runs and supervises the language-server child process.
package backend

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
	"github.com/joho/godotenv"

	"github.com/microsoft/devhost/internal/config"
	"github.com/microsoft/devhost/pkg/maps"
	"github.com/microsoft/devhost/pkg/process"
	"github.com/microsoft/devhost/pkg/resiliency"
)

const (
	restartInitialDelay = 500 * time.Millisecond
	restartMaxDelay     = 30 * time.Second

	// A run at least this long counts as healthy and resets the restart delay.
	healthyRunDuration = 30 * time.Second
)

// Manager keeps the language server running: it starts the server process,
// streams its output into the log, restarts it with exponential backoff when
// it exits unexpectedly, and restarts it when the settings file changes.
type Manager struct {
	cfg      config.ServerConfig
	executor process.Executor
	log      logr.Logger
}

func NewManager(cfg config.ServerConfig, executor process.Executor, log logr.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		executor: executor,
		log:      log,
	}
}

// Run supervises the server until the context is cancelled.
// Failing to start the server is fatal; a server that started and then
// exited is restarted.
func (m *Manager) Run(ctx context.Context) error {
	if m.cfg.Path == "" {
		return fmt.Errorf("language server path is not configured")
	}

	restartCh := make(chan string, 1)
	if m.cfg.SettingsFile != "" {
		resiliency.RunDetached(m.log, func() {
			m.watchSettings(ctx, restartCh)
		})
	}

	delay := backoff.NewExponentialBackOff()
	delay.InitialInterval = restartInitialDelay
	delay.MaxInterval = restartMaxDelay
	delay.MaxElapsedTime = 0 // Keep restarting for as long as we are asked to run.

	for {
		started := time.Now()
		exitCode, err := m.runOnce(ctx, restartCh)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}

		if time.Since(started) >= healthyRunDuration {
			delay.Reset()
		}

		next := delay.NextBackOff()
		m.log.Info("language server exited, restarting", "exitCode", exitCode, "delay", next)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(next):
		}
	}
}

// runOnce starts the server and waits for it to exit, or stops it when a
// restart is requested.
func (m *Manager) runOnce(ctx context.Context, restartCh <-chan string) (int32, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := m.makeCommand(runCtx)
	cmd.Stdout = newLogLineWriter(m.log.WithName("server"), "stdout")
	cmd.Stderr = newLogLineWriter(m.log.WithName("server"), "stderr")

	exitCh := make(chan process.ProcessExitInfo, 1)
	pid, startWaitForProcessExit, err := m.executor.StartProcess(runCtx, cmd, process.NewChannelProcessExitHandler(exitCh))
	if err != nil {
		return process.UnknownExitCode, fmt.Errorf("failed to start language server '%s': %w", m.cfg.Path, err)
	}

	m.log.Info("language server started", "executable", cmd.Path, "PID", pid)
	startWaitForProcessExit()

	select {
	case exitInfo := <-exitCh:
		if exitInfo.Err != nil {
			m.log.Error(exitInfo.Err, "language server run ended with an error", "PID", pid)
		}
		return exitInfo.ExitCode, nil

	case reason := <-restartCh:
		m.log.Info("stopping language server", "reason", reason, "PID", pid)
		return m.stopAndWait(pid, exitCh), nil

	case <-runCtx.Done():
		return m.stopAndWait(pid, exitCh), nil
	}
}

func (m *Manager) stopAndWait(pid int32, exitCh <-chan process.ProcessExitInfo) int32 {
	if stopErr := m.executor.StopProcess(pid); stopErr != nil {
		m.log.Error(stopErr, "failed to stop language server", "PID", pid)
	}
	exitInfo := <-exitCh
	return exitInfo.ExitCode
}

func (m *Manager) makeCommand(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, m.cfg.Path)
	cmd.Args = append([]string{m.cfg.Path}, m.cfg.Args...)
	cmd.Dir = m.cfg.WorkingDirectory

	env := os.Environ()

	if len(m.cfg.EnvFiles) > 0 {
		fromFiles, err := godotenv.Read(m.cfg.EnvFiles...)
		if err != nil {
			m.log.Error(err, "Environment settings from .env file(s) were not applied.", "EnvFiles", m.cfg.EnvFiles)
		} else {
			env = append(env, maps.MapToSlice(fromFiles, func(key, val string) string { return fmt.Sprintf("%s=%s", key, val) })...)
		}
	}

	// Explicit env entries come last so they win over envFile contents.
	env = append(env, maps.MapToSlice(m.cfg.Env, func(key, val string) string { return fmt.Sprintf("%s=%s", key, val) })...)

	cmd.Env = env
	return cmd
}

// watchSettings requests a server restart whenever the settings file changes.
// The directory is watched rather than the file itself so that editors that
// save by replacing the file still produce events.
func (m *Manager) watchSettings(ctx context.Context, restartCh chan<- string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		m.log.Error(err, "failed to create settings file watcher", "settingsFile", m.cfg.SettingsFile)
		return
	}
	defer watcher.Close()

	if addErr := watcher.Add(filepath.Dir(m.cfg.SettingsFile)); addErr != nil {
		m.log.Error(addErr, "failed to watch settings file directory", "settingsFile", m.cfg.SettingsFile)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case we := <-watcher.Events:
			if we.Name != m.cfg.SettingsFile {
				continue
			}
			if we.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case restartCh <- fmt.Sprintf("settings file %s changed", m.cfg.SettingsFile):
			default:
				// A restart is already pending.
			}

		case watchErr := <-watcher.Errors:
			m.log.Error(watchErr, "settings file watcher error", "settingsFile", m.cfg.SettingsFile)
		}
	}
}
