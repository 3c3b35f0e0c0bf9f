// Copyright (c) Microsoft Corporation. All rights reserved.

// Package envfile reads line-oriented KEY=VALUE environment files used by
// debug launch configurations. Unlike loading a whole file at once, parsing
// is per line: a malformed line is skipped and recorded as a warning instead
// of failing the whole file.
package envfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Result holds the variables parsed out of an environment file plus an
// optional warning describing any lines that could not be parsed.
type Result struct {
	Env     map[string]string
	Warning string
}

// Parse reads the environment file at path. An unreadable file is an error
// carrying the path and the underlying cause. Individual lines that fail to
// parse are skipped and reported through Result.Warning.
func Parse(path string) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("can't parse envFile %s because of %w", path, err)
	}

	return parseContent(path, string(content)), nil
}

func parseContent(path string, content string) Result {
	// Drop the BOM if present.
	content = strings.TrimPrefix(content, "\uFEFF")

	env := map[string]string{}
	var badLines []string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		parsed, parseErr := godotenv.Unmarshal(line)
		if parseErr != nil || len(parsed) == 0 {
			badLines = append(badLines, line)
			continue
		}
		// godotenv maps a line without '=' to a variable with an empty name.
		if _, emptyKey := parsed[""]; emptyKey {
			badLines = append(badLines, line)
			continue
		}

		for k, v := range parsed {
			env[k] = v
		}
	}

	result := Result{Env: env}
	if len(badLines) > 0 {
		result.Warning = fmt.Sprintf("Ignoring non-parsable lines in envFile %s: %s.", path, strings.Join(badLines, ", "))
	}

	return result
}

// Merge combines variables from an environment file with an existing
// environment mapping. Existing entries always win over file entries.
func Merge(existing map[string]string, fromFile map[string]string) map[string]string {
	if len(fromFile) == 0 {
		return existing
	}

	merged := make(map[string]string, len(existing)+len(fromFile))
	for k, v := range fromFile {
		merged[k] = v
	}
	for k, v := range existing {
		merged[k] = v
	}
	return merged
}
