package folding

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func TestToFoldingRanges(t *testing.T) {
	spans := []BlockSpan{
		{Kind: SpanKindComment, StartLine: 0, EndLine: 3},
		{Kind: SpanKindImports, StartLine: 5, EndLine: 9},
		{Kind: SpanKindRegion, StartLine: 11, EndLine: 40},
		{Kind: "Member", StartLine: 13, EndLine: 20},
		{StartLine: 22, EndLine: 25},
	}

	ranges := ToFoldingRanges(spans)
	require.Len(t, ranges, len(spans))

	require.Equal(t, protocol.CommentFoldingRange, ranges[0].Kind)
	require.Equal(t, protocol.ImportsFoldingRange, ranges[1].Kind)
	require.Equal(t, protocol.RegionFoldingRange, ranges[2].Kind)

	// Unknown and missing kinds produce unclassified folds.
	require.Empty(t, ranges[3].Kind)
	require.Empty(t, ranges[4].Kind)

	// Line numbers are copied through unchanged.
	for i, span := range spans {
		require.Equal(t, span.StartLine, ranges[i].StartLine)
		require.Equal(t, span.EndLine, ranges[i].EndLine)
	}
}

func TestToFoldingRangesEmpty(t *testing.T) {
	require.Empty(t, ToFoldingRanges(nil))
	require.Empty(t, ToFoldingRanges([]BlockSpan{}))
}
