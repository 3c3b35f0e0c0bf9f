// Copyright (c) Microsoft Corporation. All rights reserved.

// Package options converts backend option names to client configuration names.
package options

import (
	"fmt"
	"strings"
	"unicode"
)

const csharpLanguageName = "csharp"

// Option prefixes that become the leading node of the client configuration name.
var clientNodePrefixes = []string{"dotnet", "csharp"}

// ConvertServerOptionNameToClientConfigurationName maps a backend option name,
// shaped {language}|{group}.{option} or {group}.{option}, to the corresponding
// client configuration name. The second return value is false when the option
// belongs to a language this client does not handle.
//
// For example, "csharp|implement_type.dotnet_insertion_behavior" becomes
// "dotnet.implementType.insertionBehavior": the recognized "dotnet" option
// prefix moves to the front, and snake_case segments become camelCase.
// An option name without a '.' separator indicates a backend contract
// violation and panics.
func ConvertServerOptionNameToClientConfigurationName(section string) (string, bool) {
	languageNameIndex := strings.Index(section, "|")
	if languageNameIndex >= 0 && section[:languageNameIndex] != csharpLanguageName {
		return "", false
	}

	optionName := section[languageNameIndex+1:]

	dotIndex := strings.Index(optionName, ".")
	if dotIndex < 0 {
		panic(fmt.Sprintf("malformed server option name '%s': expected {group}.{option}", section))
	}

	group := snakeToCamel(optionName[:dotIndex])
	name := optionName[dotIndex+1:]

	for _, node := range clientNodePrefixes {
		if strings.HasPrefix(name, node+"_") {
			name = strings.TrimPrefix(name, node+"_")
			return node + "." + group + "." + snakeToCamel(name), true
		}
	}

	return group + "." + snakeToCamel(name), true
}

func snakeToCamel(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))

	upperNext := false
	for _, r := range name {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			sb.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		sb.WriteRune(r)
	}

	return sb.String()
}
