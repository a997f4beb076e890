// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package virtualdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

func TestExtractStripsQuotesAndDedents(t *testing.T) {
	region := Region{
		Lang:    "metta",
		Start:   types.Position{Byte: 10},
		RawText: "\"  (+ 1 2)\n  (* 3 4)\"",
	}
	text, offsets := Extract(region)
	assert.Equal(t, "(+ 1 2)\n(* 3 4)", text)
	require.NotNil(t, offsets)
}

func TestExtractOffsetTableMapsBackIntoParent(t *testing.T) {
	region := Region{
		Lang:    "metta",
		Start:   types.Position{Byte: 10},
		RawText: `"(+ 1 2)"`,
	}
	text, offsets := Extract(region)
	require.Equal(t, "(+ 1 2)", text)

	parentByte, ok := offsets.MapToParent(0)
	require.True(t, ok)
	assert.Equal(t, 11, parentByte, "skips the opening quote byte")
}

func TestBuildInvokesPipelineOnExtractedText(t *testing.T) {
	region := Region{Lang: "metta", Start: types.Position{Byte: 0}, RawText: `"(+ 1 2)"`}
	var gotURI string
	var gotContent string
	pipeline := func(uri string, content []byte) (*types.Node, symbolsResult, error) {
		gotURI = uri
		gotContent = string(content)
		return &types.Node{Kind: types.KindNil}, nil, nil
	}

	doc, err := Build("file:///parent.rho", region, pipeline)
	require.NoError(t, err)
	assert.Equal(t, "(+ 1 2)", gotContent)
	assert.Contains(t, gotURI, "parent.rho")
	assert.Equal(t, types.KindNil, doc.Root.Kind)
}

func TestDetectAllUnionsEveryDetector(t *testing.T) {
	lit := &types.Node{Kind: types.KindString, Rel: types.RelativePosition{RowDelta: 1}, Text: `"x"`}
	root := &types.Node{Kind: types.KindPar, Children: []*types.Node{lit}}
	assert.Empty(t, DetectAll(root, nil, nil), "no detector should fire without any signal")
}
