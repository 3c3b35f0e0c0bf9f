package options

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertServerOptionNameToClientConfigurationName(t *testing.T) {
	testCases := []struct {
		serverName string
		clientName string
	}{
		{"csharp|implement_type.dotnet_insertion_behavior", "dotnet.implementType.insertionBehavior"},
		{"csharp|symbol_search.dotnet_search_reference_assemblies", "dotnet.symbolSearch.searchReferenceAssemblies"},
		{"csharp|formatting.csharp_new_line_before_open_brace", "csharp.formatting.newLineBeforeOpenBrace"},
		// A language-neutral option keeps its group as the leading node.
		{"code_style.formatting.indentation_size", "codeStyle.formatting.indentationSize"},
		// An unrecognized option prefix produces no leading node.
		{"csharp|background_analysis.analyzer_diagnostics_scope", "backgroundAnalysis.analyzerDiagnosticsScope"},
	}

	for _, tc := range testCases {
		t.Run(tc.serverName, func(t *testing.T) {
			clientName, ok := ConvertServerOptionNameToClientConfigurationName(tc.serverName)
			require.True(t, ok)
			require.Equal(t, tc.clientName, clientName)
		})
	}
}

func TestConvertOptionNameOtherLanguage(t *testing.T) {
	clientName, ok := ConvertServerOptionNameToClientConfigurationName("visual_basic|implement_type.dotnet_insertion_behavior")
	require.False(t, ok)
	require.Empty(t, clientName)
}

func TestConvertOptionNameWithoutSeparatorPanics(t *testing.T) {
	require.Panics(t, func() {
		_, _ = ConvertServerOptionNameToClientConfigurationName("csharp|no_separator_here")
	})
}
