// Copyright © 2024 The ELPS authors

package descriptor

import (
	"fmt"
	"strings"

	parsec "github.com/prataprc/goparsec"
)

// rawTag is the goparsec grammar's output for one recognized tag: either
// an opening tag (optionally self-closing) or a closing tag. The
// descriptor format is XML-*like*, not well-formed XML (spec §6), so the
// grammar only needs to recognize tags and their attributes, not the full
// XML content model.
type rawTag struct {
	closing     bool
	selfClosing bool
	name        string
	attrs       map[string]string
}

func nodeText(n parsec.ParsecNode) string {
	switch v := n.(type) {
	case *parsec.Terminal:
		return v.Value
	case string:
		return v
	default:
		return ""
	}
}

// flatten collapses the nested []ParsecNode results goparsec's And/Kleene
// combinators can produce into one flat slice.
func flatten(nodes []parsec.ParsecNode) []parsec.ParsecNode {
	var out []parsec.ParsecNode
	for _, n := range nodes {
		switch v := n.(type) {
		case nil:
		case []parsec.ParsecNode:
			out = append(out, flatten(v)...)
		default:
			out = append(out, v)
		}
	}
	return out
}

func unquoteAttrValue(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `\"`, `"`)
}

func attrNodify(nodes []parsec.ParsecNode) parsec.ParsecNode {
	flat := flatten(nodes)
	if len(flat) < 3 {
		return nil
	}
	name := strings.ToLower(nodeText(flat[0]))
	value := unquoteAttrValue(nodeText(flat[2]))
	return [2]string{name, value}
}

func openTagNodify(nodes []parsec.ParsecNode) parsec.ParsecNode {
	tag := rawTag{attrs: map[string]string{}}
	for _, n := range flatten(nodes) {
		switch v := n.(type) {
		case [2]string:
			tag.attrs[v[0]] = v[1]
		case *parsec.Terminal:
			switch v.Name {
			case "NAME":
				if tag.name == "" {
					tag.name = v.Value
				}
			case "SLASHGT":
				tag.selfClosing = true
			}
		}
	}
	return tag
}

func closeTagNodify(nodes []parsec.ParsecNode) parsec.ParsecNode {
	tag := rawTag{closing: true}
	for _, n := range flatten(nodes) {
		if t, ok := n.(*parsec.Terminal); ok && t.Name == "NAME" {
			tag.name = t.Value
		}
	}
	return tag
}

// newTagParser builds the combinator grammar for one tag: either
//
//	"<" NAME attr* ("/>" | ">")
//
// or
//
//	"</" NAME ">"
func newTagParser() parsec.Parser {
	lt := parsec.Atom("<", "LT")
	ltslash := parsec.Atom("</", "LTSLASH")
	slashgt := parsec.Atom("/>", "SLASHGT")
	gt := parsec.Atom(">", "GT")
	eq := parsec.Atom("=", "EQ")
	name := parsec.Token(`[A-Za-z_][A-Za-z0-9_.:-]*`, "NAME")
	value := parsec.String()

	attr := parsec.And(parsec.Nodify(attrNodify), name, eq, value)
	attrList := parsec.Kleene(nil, attr)
	tagEnd := parsec.OrdChoice(nil, slashgt, gt)
	openTag := parsec.And(parsec.Nodify(openTagNodify), lt, name, attrList, tagEnd)
	closeTag := parsec.And(parsec.Nodify(closeTagNodify), ltslash, name, gt)

	return parsec.OrdChoice(nil, closeTag, openTag)
}

// scannedTag pairs a recognized rawTag with the byte range it occupies in
// the original source, so callers can recover precise attribute-value
// ranges for diagnostics without reaching into the parser library's
// internal terminal-position bookkeeping.
type scannedTag struct {
	tag   rawTag
	start int
	end   int
}

// scanTags walks src left to right, skipping non-markup text and feeding
// every "<...>" run through the tag grammar.
func scanTags(src []byte) ([]scannedTag, error) {
	parser := newTagParser()
	s := parsec.NewScanner(src)

	var tags []scannedTag
	for {
		if _, next := s.Match(`[^<]*`); next != nil {
			s = next
		}
		if s.Endof() {
			break
		}
		start := s.GetCursor()
		node, next := parser(s)
		if node == nil {
			return tags, fmt.Errorf("unrecognized markup at offset %d", start)
		}
		end := next.GetCursor()
		if list, isList := node.([]parsec.ParsecNode); isList && len(list) == 1 {
			node = list[0]
		}
		rt, ok := node.(rawTag)
		if !ok {
			return tags, fmt.Errorf("unexpected descriptor grammar result at offset %d", start)
		}
		tags = append(tags, scannedTag{tag: rt, start: start, end: end})
		s = next
	}
	return tags, nil
}
