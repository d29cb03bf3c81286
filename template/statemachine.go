package template

// parseState is the template parser's state-machine state.
// Transitions are strictly forward: a header line may only move the
// machine to a state with a strictly greater ordinal than its current
// one; anything else is an InvalidStateTransition.
type parseState int

const (
	stateStart parseState = iota
	stateRegexParsing
	stateNodeParsing
	stateEdgeParsing
	stateDone
	stateError
)

func (s parseState) String() string {
	switch s {
	case stateStart:
		return "Start"
	case stateRegexParsing:
		return "RegexParsing"
	case stateNodeParsing:
		return "NodeParsing"
	case stateEdgeParsing:
		return "EdgeParsing"
	case stateDone:
		return "Done"
	case stateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// headerTargets maps every recognized section-header keyword to the
// state it transitions to.
var headerTargets = map[string]parseState{
	"regex":   stateRegexParsing,
	"regexes": stateRegexParsing,
	"nodes":   stateNodeParsing,
	"node":    stateNodeParsing,
	"edges":   stateEdgeParsing,
	"edge":    stateEdgeParsing,
	"graph":   stateEdgeParsing,
}

// nextState validates a header-triggered transition, enforcing the
// strictly-forward rule.
func nextState(current parseState, header string) (parseState, bool) {
	target, known := headerTargets[header]
	if !known {
		return stateError, false
	}

	if target <= current {
		return stateError, false
	}

	return target, true
}
