// Copyright (c) Microsoft Corporation. All rights reserved.

package osutil

import (
	"os"
	"strings"
	"time"
)

// Returns true if the environment variable "switch" is enabled.
// The environment variable is considered enabled if it is set to one of the "truthy" values:
// "1", "true", "on", or "yes".
func EnvVarSwitchEnabled(varName string) bool {
	value, found := os.LookupEnv(varName)
	if !found || strings.TrimSpace(value) == "" {
		return false
	}

	value = strings.TrimSpace(value)
	enabled := strings.EqualFold(value, "1") ||
		strings.EqualFold(value, "true") ||
		strings.EqualFold(value, "on") ||
		strings.EqualFold(value, "yes")
	return enabled
}

func EnvVarStringWithDefault(varName string, defaultVal string) string {
	val, found := os.LookupEnv(varName)
	if !found || strings.TrimSpace(val) == "" {
		return defaultVal
	} else {
		return val
	}
}

func EnvVarDurationValWithDefault(varName string, defaultVal time.Duration) time.Duration {
	value, found := os.LookupEnv(varName)
	if !found || strings.TrimSpace(value) == "" {
		return defaultVal
	}

	val, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return defaultVal
	}

	return val
}
