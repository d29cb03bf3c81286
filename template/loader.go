package template

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dd-studio/jobsys/graph"
	"github.com/dd-studio/jobsys/jobserrors"
	"github.com/dd-studio/jobsys/node"
	"github.com/dd-studio/jobsys/options"
	"github.com/dd-studio/jobsys/regexmatch"
)

// Result is everything a successful template parse produces: the
// populated graph, the label-to-vertex map used to resolve edge-chain
// and search-term references, and the named regex table.
type Result struct {
	Graph    *graph.Graph
	KeyMap   map[string]int
	RegexMap map[string]*regexmatch.Matcher
}

// rootLabel is the reserved edge-chain label referring to vertex 0; it
// is never present in KeyMap since it is not declared in a [nodes]
// section.
const rootLabel = "root"

// Parse drives the state machine in statemachine.go over r's lines,
// building a Result. It is line-oriented, not a general grammar: each
// line is independently classified and handed to the parser function
// for whatever section is currently open.
func Parse(r io.Reader, opts *options.Options) (*Result, error) {
	l := &loader{
		opts:     opts,
		state:    stateStart,
		graph:    graph.New(),
		keyMap:   map[string]int{},
		regexMap: map[string]*regexmatch.Matcher{},
	}

	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		l.lineNo++

		if err := l.consume(scanner.Text()); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, jobserrors.WithStackTrace(&jobserrors.IoError{Cause: err})
	}

	l.state = stateDone

	return &Result{Graph: l.graph, KeyMap: l.keyMap, RegexMap: l.regexMap}, nil
}

type loader struct {
	opts *options.Options

	state  parseState
	lineNo int

	graph    *graph.Graph
	keyMap   map[string]int
	regexMap map[string]*regexmatch.Matcher
}

func (l *loader) consume(raw string) error {
	pl, ok := classify(raw)
	if ok {
		switch pl.kind {
		case lineEmpty, lineComment:
			return nil
		case lineHeader:
			return l.transition(pl.header)
		}
	}

	trimmed := strings.TrimSpace(raw)

	switch l.state {
	case stateStart:
		return jobserrors.WithStackTrace(&jobserrors.ParsingError{
			Line: l.lineNo, Text: trimmed, State: l.state.String(),
			Cause: fmt.Errorf("content before any section header"),
		})
	case stateRegexParsing:
		return l.consumeRegexLine(trimmed)
	case stateNodeParsing:
		return l.consumeNodeLine(trimmed)
	case stateEdgeParsing:
		return l.consumeEdgeLine(trimmed)
	default:
		return jobserrors.WithStackTrace(&jobserrors.ParsingError{
			Line: l.lineNo, Text: trimmed, State: l.state.String(),
			Cause: fmt.Errorf("unexpected content"),
		})
	}
}

// transition applies a section-header line, enforcing the
// strictly-forward rule declared in statemachine.go.
func (l *loader) transition(header string) error {
	target, known := headerTargets[header]
	if !known {
		return jobserrors.WithStackTrace(&jobserrors.ParsingError{
			Line: l.lineNo, Text: "[" + header + "]", State: l.state.String(),
			Cause: fmt.Errorf("unrecognized section header"),
		})
	}

	next, valid := nextState(l.state, header)
	if !valid {
		return jobserrors.WithStackTrace(&jobserrors.InvalidStateTransition{
			From: l.state.String(), To: target.String(),
		})
	}

	l.state = next

	return nil
}

func (l *loader) consumeRegexLine(trimmed string) error {
	pl, err := parseRegexSectionLine(trimmed)
	if err != nil {
		return withLine(err, l.lineNo)
	}

	var matcher *regexmatch.Matcher

	if pl.hasNeg {
		matcher, err = regexmatch.NewWithExclude(pl.pos, pl.neg)
	} else {
		matcher, err = regexmatch.New(pl.pos)
	}

	if err != nil {
		return err
	}

	l.regexMap[pl.name] = matcher

	return nil
}

func (l *loader) consumeNodeLine(trimmed string) error {
	pl, err := parseNodeSectionLine(trimmed)
	if err != nil {
		return withLine(err, l.lineNo)
	}

	fields, err := decodeMetadataFields(pl.meta)
	if err != nil {
		return jobserrors.WithStackTrace(&jobserrors.ParsingError{
			Line: l.lineNo, Text: trimmed, State: l.state.String(), Cause: err,
		})
	}

	meta := buildMetadata(fields)

	matcher, err := l.buildMatcher(pl, meta)
	if err != nil {
		return err
	}

	idx := l.graph.AddVertex(matcher)
	l.keyMap[pl.nodeLabel] = idx

	return nil
}

func (l *loader) buildMatcher(pl *parsedLine, meta node.Metadata) (*node.Matcher, error) {
	switch pl.nodeValue.kind {
	case nodeValueNone:
		return node.Simple(pl.nodeLabel, meta), nil

	case nodeValueLiteral:
		return node.Simple(pl.nodeValue.literal, meta), nil

	case nodeValueEnvVar:
		value, set := l.opts.LookupEnv(pl.nodeValue.envVar)
		if !set {
			return nil, jobserrors.WithStackTrace(&jobserrors.EnvVarLookupError{Name: pl.nodeValue.envVar})
		}

		return node.Simple(value, meta), nil

	case nodeValueRegexRef:
		re, known := l.regexMap[pl.nodeValue.ref]
		if !known {
			return nil, jobserrors.WithStackTrace(&jobserrors.RegexMapLookupError{Name: pl.nodeValue.ref})
		}

		return node.Regex(pl.nodeLabel, re, meta), nil

	case nodeValueInlineRegex:
		var (
			re  *regexmatch.Matcher
			err error
		)

		if pl.nodeValue.hasNeg {
			re, err = regexmatch.NewWithExclude(pl.nodeValue.pos, pl.nodeValue.neg)
		} else {
			re, err = regexmatch.New(pl.nodeValue.pos)
		}

		if err != nil {
			return nil, err
		}

		return node.Regex(pl.nodeLabel, re, meta), nil

	default:
		return nil, jobserrors.WithStackTrace(&jobserrors.TemplateError{Msg: "unrecognized node value form for " + pl.nodeLabel})
	}
}

func (l *loader) consumeEdgeLine(trimmed string) error {
	pl, err := parseEdgeSectionLine(trimmed)
	if err != nil {
		return withLine(err, l.lineNo)
	}

	prev, err := l.resolveLabel(pl.edgeChain[0])
	if err != nil {
		return err
	}

	for _, label := range pl.edgeChain[1:] {
		cur, err := l.resolveLabel(label)
		if err != nil {
			return err
		}

		l.graph.AddEdge(prev, cur)

		prev = cur
	}

	return nil
}

func (l *loader) resolveLabel(label string) (int, error) {
	if label == rootLabel {
		return l.graph.RootIndex(), nil
	}

	idx, known := l.keyMap[label]
	if !known {
		return 0, jobserrors.WithStackTrace(&jobserrors.KeyMapLookupError{Name: label})
	}

	return idx, nil
}

// buildMetadata translates the decoded bracket fields into a
// node.Metadata value. Every template-declared node is Autocreate:
// true; the materializer's single-path walk never branches on this
// field today, but it stays part of the data model for a future
// whole-subtree pre-creation feature.
func buildMetadata(fields metadataFields) node.Metadata {
	meta := node.Metadata{
		Perms:      fields.Perms,
		EnvVar:     fields.Varname,
		Autocreate: true,
	}

	if fields.Volume {
		meta.EntryType = node.EntryVolume
	} else {
		meta.EntryType = node.EntryDirectory
	}

	switch {
	case fields.Owner == "":
		meta.Owner = nil
	case fields.Owner == "me":
		meta.Owner = node.Me()
	case strings.HasPrefix(fields.Owner, "$"):
		meta.Owner = node.Captured(strings.TrimPrefix(fields.Owner, "$"))
	default:
		meta.Owner = node.Named(fields.Owner)
	}

	return meta
}

// withLine attaches the current line number to a *jobserrors.ParsingError
// produced without one (the line-parser functions don't know their own
// line number), and wraps it with a stack trace.
func withLine(err error, lineNo int) error {
	if pe, ok := err.(*jobserrors.ParsingError); ok {
		pe.Line = lineNo
		return jobserrors.WithStackTrace(pe)
	}

	return jobserrors.WithStackTrace(err)
}
