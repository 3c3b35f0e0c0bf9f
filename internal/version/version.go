// Copyright (c) Microsoft Corporation. All rights reserved.

package version

import (
	"time"
)

const (
	DevelopmentVersion = "dev"
)

var (
	ProductVersion = DevelopmentVersion
	CommitHash     = ""
	BuildTimestamp = ""
)

type VersionOutput struct {
	Version    string `json:"version"`
	CommitHash string `json:"commitHash,omitempty"`
	BuildTime  string `json:"buildTimestamp,omitempty"`
}

func Version() VersionOutput {
	buildTime := ""
	if BuildTimestamp != "" {
		if parsedTime, err := time.Parse(time.RFC3339, BuildTimestamp); err == nil {
			buildTime = parsedTime.Format(time.RFC3339)
		}
	}

	if ProductVersion == "" {
		ProductVersion = DevelopmentVersion
	}

	return VersionOutput{
		Version:    ProductVersion,
		CommitHash: CommitHash,
		BuildTime:  buildTime,
	}
}
