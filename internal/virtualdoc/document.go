// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package virtualdoc

import (
	"strings"

	"github.com/f1r3fly-io/rholang-language-server/internal/docextract"
	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// Pipeline is the recursive re-entry point into the §4.3 parse+IR+symbol
// pipeline, injected by the caller to avoid internal/virtualdoc depending
// on the packages that already depend on it (internal/ir, internal/symbols).
type Pipeline func(uri string, content []byte) (*types.Node, symbolsResult, error)

// symbolsResult is kept abstract here; callers supply their own concrete
// *symbols.Document and type-assert it back out, since this package has no
// business knowing that package's shape.
type symbolsResult = any

// VirtualDocument is an embedded-language region extracted out of a parent
// document, indexed by the same pipeline recursively applied to its own
// extracted content (spec §4.7).
type VirtualDocument struct {
	ParentURI string
	Lang      string
	Text      string
	Offsets   *OffsetTable

	Root    *types.Node
	Symbols symbolsResult
}

// Extract dedents region.RawText and strips a single layer of surrounding
// quotes (when present), building the offset table that maps the result
// back to byte ranges in the parent document.
func Extract(region Region) (text string, offsets *OffsetTable) {
	raw := region.RawText
	quoted := len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"'
	body := raw
	quoteOffset := 0
	if quoted {
		body = raw[1 : len(raw)-1]
		quoteOffset = 1
	}

	dedented, entries := dedent(body, region.Start.Byte+quoteOffset)
	return dedented, NewOffsetTable(entries)
}

// dedent strips the minimal common leading whitespace from every non-blank
// line of body, recording one OffsetEntry per resulting line so the
// mapping back to the parent survives the removed indentation.
func dedent(body string, parentBodyStart int) (string, []OffsetEntry) {
	lines := strings.Split(body, "\n")
	common := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		indent := len(l) - len(strings.TrimLeft(l, " \t"))
		if common == -1 || indent < common {
			common = indent
		}
	}
	if common < 0 {
		common = 0
	}

	var out strings.Builder
	var entries []OffsetEntry
	parentOffset := parentBodyStart
	virtualOffset := 0
	for i, l := range lines {
		trimmed := l
		trimLen := 0
		if len(l) >= common {
			trimmed = l[common:]
			trimLen = common
		} else {
			trimmed = ""
			trimLen = len(l)
		}
		entries = append(entries, OffsetEntry{
			ParentStart:  parentOffset + trimLen,
			ParentEnd:    parentOffset + len(l),
			VirtualStart: virtualOffset,
			VirtualEnd:   virtualOffset + len(trimmed),
		})
		out.WriteString(trimmed)
		virtualOffset += len(trimmed)
		parentOffset += len(l) + 1 // +1 for the newline consumed between lines
		if i < len(lines)-1 {
			out.WriteByte('\n')
			virtualOffset++
		}
	}
	return out.String(), entries
}

// Build constructs a VirtualDocument for region, extracting and dedenting
// its text and running pipeline over the result.
func Build(parentURI string, region Region, pipeline Pipeline) (*VirtualDocument, error) {
	text, offsets := Extract(region)
	uri := parentURI + "#virtual:" + region.Lang
	root, syms, err := pipeline(uri, []byte(text))
	if err != nil {
		return nil, err
	}
	return &VirtualDocument{
		ParentURI: parentURI,
		Lang:      region.Lang,
		Text:      text,
		Offsets:   offsets,
		Root:      root,
		Symbols:   syms,
	}, nil
}

// DetectAll runs every detector over root and returns the union of
// discovered regions, in detector-then-source order (directive first,
// since it is the most explicit and should win byte-range conflicts when a
// caller needs to dedupe overlapping detections).
func DetectAll(root *types.Node, source []byte, comments []docextract.Comment) []Region {
	var out []Region
	out = append(out, DetectDirectives(root, source, comments)...)
	out = append(out, DetectSemantic(root)...)
	out = append(out, DetectChannelFlow(root)...)
	return out
}
