package template

import (
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/dd-studio/jobsys/jobserrors"
)

// lineKind is what a line, once lexed, turns out to be: Empty,
// Comment, Header, Regex, Node, Edges.
type lineKind int

const (
	lineEmpty lineKind = iota
	lineComment
	lineHeader
	lineRegex
	lineNode
	lineEdges
)

// parsedLine is the union of everything a line-parse can produce.
type parsedLine struct {
	kind lineKind

	header string

	// regex/inline-regex fields (shared by the [regex] section and
	// inline node patterns).
	name    string
	pos     string
	neg     string
	hasNeg  bool

	// node-specific fields.
	nodeLabel string
	nodeValue nodeValue
	meta      map[string]any

	// edges.
	edgeChain []string
}

type nodeValueKind int

const (
	nodeValueNone nodeValueKind = iota
	nodeValueLiteral
	nodeValueRegexRef
	nodeValueEnvVar
	nodeValueInlineRegex
)

type nodeValue struct {
	kind    nodeValueKind
	literal string
	ref     string
	envVar  string
	pos     string
	neg     string
	hasNeg  bool
}

var (
	headerRe       = regexp.MustCompile(`^\[\s*([A-Za-z]+)\s*\]$`)
	regexLineRe    = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*=\s*"((?:[^"\\]|\\.)*)"(?:\s+"((?:[^"\\]|\\.)*)")?\s*$`)
	nodeMetaSplit  = regexp.MustCompile(`^(.*?)\s*\[\s*([^\[\]]*?)\s*\]\s*$`)
	nodeMainRe     = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*(?:=\s*(.+?))?\s*$`)
	nodeQuotedRe   = regexp.MustCompile(`^"((?:[^"\\]|\\.)*)"(?:\s+"((?:[^"\\]|\\.)*)")?$`)
)

// classify recognizes the lines every state accepts: blank lines,
// comments, and section headers. Comments are whole-line (`#` or `//`
// start the line); a trailing comment after other content is not
// stripped.
// This keeps the grammar simple and matches the teacher's own
// line-oriented config scanning, which never mixes code and comments
// on one line either.
func classify(raw string) (*parsedLine, bool) {
	trimmed := strings.TrimSpace(raw)

	switch {
	case trimmed == "":
		return &parsedLine{kind: lineEmpty}, true
	case strings.HasPrefix(trimmed, "#"), strings.HasPrefix(trimmed, "//"):
		return &parsedLine{kind: lineComment}, true
	}

	if m := headerRe.FindStringSubmatch(trimmed); m != nil {
		return &parsedLine{kind: lineHeader, header: strings.ToLower(m[1])}, true
	}

	return nil, false
}

// parseRegexSectionLine parses a line found while in the RegexParsing
// state: `name = "PATTERN"` or `name = "POS" "NEG"`.
func parseRegexSectionLine(trimmed string) (*parsedLine, error) {
	m := regexLineRe.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, &jobserrors.ParsingError{State: stateRegexParsing.String(), Text: trimmed}
	}

	pl := &parsedLine{kind: lineRegex, name: m[1], pos: m[2]}
	if m[3] != "" {
		pl.neg = m[3]
		pl.hasNeg = true
	}

	return pl, nil
}

// parseNodeSectionLine parses a line found while in the NodeParsing
// state, including its optional trailing metadata bracket.
func parseNodeSectionLine(trimmed string) (*parsedLine, error) {
	body := trimmed
	metaTokens := ""

	if m := nodeMetaSplit.FindStringSubmatch(trimmed); m != nil {
		body = strings.TrimSpace(m[1])
		metaTokens = m[2]
	}

	m := nodeMainRe.FindStringSubmatch(body)
	if m == nil {
		return nil, &jobserrors.ParsingError{State: stateNodeParsing.String(), Text: trimmed}
	}

	pl := &parsedLine{kind: lineNode, nodeLabel: m[1]}

	expr := strings.TrimSpace(m[2])

	switch {
	case expr == "":
		pl.nodeValue = nodeValue{kind: nodeValueNone}
	case strings.HasPrefix(expr, "\""):
		qm := nodeQuotedRe.FindStringSubmatch(expr)
		if qm == nil {
			return nil, &jobserrors.ParsingError{State: stateNodeParsing.String(), Text: trimmed}
		}

		nv := nodeValue{kind: nodeValueInlineRegex, pos: qm[1]}
		if qm[2] != "" {
			nv.neg = qm[2]
			nv.hasNeg = true
		}

		pl.nodeValue = nv
	case strings.HasPrefix(expr, "$$"):
		pl.nodeValue = nodeValue{kind: nodeValueEnvVar, envVar: expr[2:]}
	case strings.HasPrefix(expr, "$"):
		pl.nodeValue = nodeValue{kind: nodeValueRegexRef, ref: expr[1:]}
	default:
		pl.nodeValue = nodeValue{kind: nodeValueLiteral, literal: expr}
	}

	meta, err := parseMetadataTokens(metaTokens)
	if err != nil {
		return nil, &jobserrors.ParsingError{State: stateNodeParsing.String(), Text: trimmed, Cause: err}
	}

	pl.meta = meta

	return pl, nil
}

// parseEdgeSectionLine parses a chain line: `a -> b -> c -> d`.
func parseEdgeSectionLine(trimmed string) (*parsedLine, error) {
	parts := strings.Split(trimmed, "->")
	if len(parts) < 2 {
		return nil, &jobserrors.ParsingError{State: stateEdgeParsing.String(), Text: trimmed}
	}

	chain := make([]string, 0, len(parts))

	for _, part := range parts {
		label := strings.TrimSpace(part)
		if label == "" {
			return nil, &jobserrors.ParsingError{State: stateEdgeParsing.String(), Text: trimmed}
		}

		chain = append(chain, label)
	}

	return &parsedLine{kind: lineEdges, edgeChain: chain}, nil
}

// metadataFields is the typed shape a bracket clause's tokens are
// decoded into via mapstructure, rather than a hand-rolled switch over
// recognized keys.
type metadataFields struct {
	Volume  bool   `mapstructure:"volume"`
	Owner   string `mapstructure:"owner"`
	Perms   string `mapstructure:"perms"`
	Varname string `mapstructure:"varname"`
}

// parseMetadataTokens splits a bracket clause's comma-separated tokens
// into a map (duplicates take last-wins, by map-assignment order);
// decodeMetadataFields then decodes that map into metadataFields with
// mapstructure.
func parseMetadataTokens(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	tokenMap := map[string]any{}

	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if token == "volume" {
			tokenMap["volume"] = true
			continue
		}

		idx := strings.Index(token, ":")
		if idx < 0 {
			return nil, &jobserrors.TemplateError{Msg: "malformed metadata token: " + token}
		}

		key := strings.TrimSpace(token[:idx])
		val := strings.TrimSpace(token[idx+1:])
		tokenMap[key] = val
	}

	return tokenMap, nil
}

// decodeMetadataFields decodes a raw token map into metadataFields.
func decodeMetadataFields(raw map[string]any) (metadataFields, error) {
	var fields metadataFields
	if raw == nil {
		return fields, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &fields,
	})
	if err != nil {
		return fields, err
	}

	if err := decoder.Decode(raw); err != nil {
		return fields, err
	}

	return fields, nil
}
