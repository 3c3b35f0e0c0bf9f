// Copyright (c) Microsoft Corporation. All rights reserved.

// Package host abstracts the editor host surfaces the integration layer relies on:
// message dialogs, the output channel, quick-pick selection, and workspace folders.
// The host owns all of these; this layer only calls into them.
package host

import (
	"context"
)

// WorkspaceFolder describes the folder a debug session originates from.
type WorkspaceFolder struct {
	Name string
	Path string
}

// MessageService shows user-facing dialogs. All methods return the label of the
// action the user selected, or an empty string if the dialog was dismissed.
type MessageService interface {
	ShowInformationMessage(ctx context.Context, message string, actions ...string) (string, error)
	ShowWarningMessage(ctx context.Context, message string, actions ...string) (string, error)

	// ShowErrorMessage with modal set blocks until the user dismisses the dialog.
	ShowErrorMessage(ctx context.Context, message string, modal bool, actions ...string) (string, error)
}

// OutputChannel is the host's output/log surface for backend tooling output.
type OutputChannel interface {
	AppendLine(line string)

	// Show brings the output channel into view.
	Show()
}

// PickItem is a single entry offered by a quick-pick dialog.
type PickItem struct {
	Label       string
	Description string
}

// QuickPick lets the user choose one item from a list.
// Returns the index of the selected item, or -1 if the user dismissed the pick.
type QuickPick interface {
	Pick(ctx context.Context, placeholder string, items []PickItem) (int, error)
}
