// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package virtualdoc

import (
	"regexp"
	"strings"

	"github.com/f1r3fly-io/rholang-language-server/internal/docextract"
	"github.com/f1r3fly-io/rholang-language-server/pkg/types"
)

// Region is one detected embedded-language span inside a parent document,
// before its content has been extracted and dedented.
type Region struct {
	Lang      string
	Start     types.Position // absolute start in the parent document
	End       int            // absolute end byte in the parent document
	RawText   string         // the literal/block text as it appears in the parent, quotes included
	Detector  string         // "directive" | "semantic" | "channel-flow", for diagnostics
}

var directivePattern = regexp.MustCompile(`^@(?:language:\s*)?(\S+)$`)

// DetectDirectives implements spec §4.7 detector 1: a line comment of the
// form `// @<lang>` or `// @language: <lang>` immediately preceding a
// string literal or block names that literal/block's embedded language.
func DetectDirectives(root *types.Node, source []byte, comments []docextract.Comment) []Region {
	var regions []Region
	literals := collectLiteralsAndBlocks(root, types.Position{})

	for _, c := range comments {
		m := directivePattern.FindStringSubmatch(c.Text)
		if m == nil {
			continue
		}
		lang := m[1]

		var best *literalNode
		for i := range literals {
			lit := &literals[i]
			if lit.abs.Byte < c.End.Byte {
				continue
			}
			if lit.abs.Row-c.End.Row > 1 {
				continue
			}
			if best == nil || lit.abs.Byte < best.abs.Byte {
				best = lit
			}
		}
		if best == nil {
			continue
		}
		regions = append(regions, Region{
			Lang:     lang,
			Start:    best.abs,
			End:      best.abs.Byte + best.node.ByteLen,
			RawText:  best.node.Text,
			Detector: "directive",
		})
	}
	return regions
}

// knownCompileChannels are channel names the semantic detector treats as
// "this argument is source code in another language" — a closed,
// configurable set standing in for a richer per-language registry (spec
// §4.7 leaves the exact channel names to the language adapter).
var knownCompileChannels = map[string]string{
	"compile":      "metta",
	"mettaCompile": "metta",
}

// DetectSemantic implements spec §4.7 detector 2: a call to a known
// "compile" channel whose argument is a string literal.
func DetectSemantic(root *types.Node) []Region {
	var regions []Region
	walkSends(root, types.Position{}, func(channel string, arg *types.Node, argAbs types.Position) {
		lang, ok := knownCompileChannels[channel]
		if !ok || arg.Kind != types.KindString {
			return
		}
		regions = append(regions, Region{
			Lang:     lang,
			Start:    argAbs,
			End:      argAbs.Byte + arg.ByteLen,
			RawText:  arg.Text,
			Detector: "semantic",
		})
	})
	return regions
}

// DetectChannelFlow implements spec §4.7 detector 3 as a name-based
// heuristic: when a `new` or `let` binder anywhere in the tree has the name
// of a known compile channel, every Send through that name with a
// string-literal argument is reported. The binder's initializer and scope
// are not inspected.
func DetectChannelFlow(root *types.Node) []Region {
	aliases := make(map[string]string) // bound name -> lang
	collectChannelAliases(root, aliases)
	if len(aliases) == 0 {
		return nil
	}

	var regions []Region
	walkSends(root, types.Position{}, func(channel string, arg *types.Node, argAbs types.Position) {
		lang, ok := aliases[channel]
		if !ok || arg.Kind != types.KindString {
			return
		}
		regions = append(regions, Region{
			Lang:     lang,
			Start:    argAbs,
			End:      argAbs.Byte + arg.ByteLen,
			RawText:  arg.Text,
			Detector: "channel-flow",
		})
	})
	return regions
}

// collectChannelAliases walks binder forms (NameDecl, Decl) and records
// every binder whose name is one of knownCompileChannels' keys as an alias
// of that channel's language. Detection is name-based only: initializers
// are not inspected.
func collectChannelAliases(n *types.Node, aliases map[string]string) {
	if n == nil {
		return
	}
	switch n.Kind {
	case types.KindNameDecl, types.KindDecl:
		if lang, ok := knownCompileChannels[n.Text]; ok {
			aliases[n.Text] = lang
		}
	}
	for _, child := range n.Children {
		collectChannelAliases(child, aliases)
	}
}

type literalNode struct {
	node *types.Node
	abs  types.Position
}

// collectLiteralsAndBlocks returns every KindString and KindBlock node in
// the tree with its reconstructed absolute start position, in document order.
func collectLiteralsAndBlocks(n *types.Node, parentStart types.Position) []literalNode {
	if n == nil {
		return nil
	}
	abs := n.Rel.Add(parentStart)
	var out []literalNode
	if n.Kind == types.KindString || n.Kind == types.KindBlock {
		out = append(out, literalNode{node: n, abs: abs})
	}
	for _, child := range n.Children {
		out = append(out, collectLiteralsAndBlocks(child, abs)...)
	}
	return out
}

// walkSends visits every Send node, invoking fn with the channel name (the
// first child's Text, when it resolves to a plain name) and the first
// argument node along with its absolute position.
func walkSends(n *types.Node, parentStart types.Position, fn func(channel string, arg *types.Node, argAbs types.Position)) {
	if n == nil {
		return
	}
	abs := n.Rel.Add(parentStart)
	if n.Kind == types.KindSend && len(n.Children) >= 2 {
		channelNode := n.Children[0]
		channel := strings.TrimSpace(channelNode.Text)
		argNode := n.Children[1]
		argAbs := argNode.Rel.Add(abs)
		fn(channel, argNode, argAbs)
	}
	for _, child := range n.Children {
		walkSends(child, abs, fn)
	}
}
