// Copyright (c) Microsoft Corporation. All rights reserved.

// Package folding translates backend block-structure spans into LSP folding ranges.
package folding

import (
	"go.lsp.dev/protocol"

	"github.com/microsoft/devhost/pkg/slices"
)

// Block span kinds reported by the language backend.
const (
	SpanKindComment = "Comment"
	SpanKindImports = "Imports"
	SpanKindRegion  = "Region"
)

// BlockSpan is a collapsible region as reported by the backend.
// Lines are zero-based and inclusive.
type BlockSpan struct {
	Kind      string `json:"kind,omitempty"`
	StartLine uint32 `json:"startLine"`
	EndLine   uint32 `json:"endLine"`
}

// ToFoldingRanges converts backend block spans to LSP folding ranges.
// Spans with an unrecognized kind become unclassified folds.
func ToFoldingRanges(spans []BlockSpan) []protocol.FoldingRange {
	return slices.Map(spans, func(span BlockSpan) protocol.FoldingRange {
		return protocol.FoldingRange{
			StartLine: span.StartLine,
			EndLine:   span.EndLine,
			Kind:      rangeKind(span.Kind),
		}
	})
}

func rangeKind(spanKind string) protocol.FoldingRangeKind {
	switch spanKind {
	case SpanKindComment:
		return protocol.CommentFoldingRange
	case SpanKindImports:
		return protocol.ImportsFoldingRange
	case SpanKindRegion:
		return protocol.RegionFoldingRange
	default:
		return ""
	}
}
