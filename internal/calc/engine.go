package calc

import (
	"fmt"
	"math"
	"strings"
)

// ErrorDisplay is shown in place of an undefined result (division by zero).
const ErrorDisplay = "Error"

// Memory is the calculator memory cell. Set distinguishes a stored zero
// from an empty cell.
type Memory struct {
	Value float64
	Set   bool
}

// State is the complete engine state. The zero value is not ready for use;
// start from NewState.
type State struct {
	Current  string
	Previous string
	Operator Token
	Display  string
	Memory   Memory
}

// NewState returns a cleared accumulator showing "0" with the given memory.
func NewState(mem Memory) State {
	return State{Display: "0", Memory: mem}
}

// Pending renders the in-progress expression, e.g. "12 +", or "" when no
// operator is pending.
func (s State) Pending() string {
	if s.Operator == "" {
		return ""
	}
	return s.Previous + " " + string(s.Operator)
}

// Result is the outcome of applying one token.
type Result struct {
	State State
	// Display is the string the display sink should show.
	Display string
	// History is the entry to append, or "" when nothing is recorded.
	History string
	// MemoryChanged reports that the memory cell must be persisted.
	MemoryChanged bool
	// Error reports that evaluation produced the "Error" sentinel.
	Error bool
}

// Apply feeds one token to the engine. It never fails: invalid input is a
// no-op and undefined arithmetic yields the "Error" display.
func Apply(s State, t Token) Result {
	switch {
	case t == TokenClear:
		s.Current, s.Previous, s.Operator = "", "", ""
		s.Display = "0"

	case t == TokenBackspace:
		if n := len(s.Current); n > 0 {
			s.Current = s.Current[:n-1]
		}
		s.Display = displayOf(s.Current)

	case t.IsMemory():
		return applyMemory(s, t)

	case t.IsOperator():
		if s.Current == "" {
			break
		}
		var r Result
		chained := s.Previous != "" && s.Operator != ""
		if chained {
			r = evaluate(s)
			if r.Error {
				// Nothing left to carry into the new operation.
				return r
			}
			s = r.State
		}
		s.Previous = s.Current
		s.Operator = t
		s.Current = ""
		if chained {
			r.State = s
			return r
		}

	case t == TokenEquals:
		if s.Previous != "" && s.Current != "" && s.Operator != "" {
			return evaluate(s)
		}

	case t.IsDigit() || t == TokenDecimal:
		if t == TokenDecimal && strings.Contains(s.Current, ".") {
			break
		}
		s.Current += string(t)
		s.Display = s.Current
	}

	return Result{State: s, Display: s.Display}
}

// ApplyAll feeds tokens in order and returns the final result together with
// every history entry recorded along the way, oldest first.
func ApplyAll(s State, tokens []Token) (Result, []string) {
	r := Result{State: s, Display: s.Display}
	var entries []string
	for _, t := range tokens {
		r = Apply(r.State, t)
		if r.History != "" {
			entries = append(entries, r.History)
		}
	}
	return r, entries
}

func evaluate(s State) Result {
	prev, okPrev := ParseNumber(s.Previous)
	curr, okCurr := ParseNumber(s.Current)

	var (
		result  float64
		errored bool
	)
	switch s.Operator {
	case TokenAdd:
		result = prev + curr
	case TokenSubtract:
		result = prev - curr
	case TokenMultiply:
		result = prev * curr
	case TokenDivide:
		if curr == 0 && okCurr {
			errored = true
		} else {
			result = prev / curr
		}
	}
	if !okPrev || !okCurr {
		result = math.NaN()
	}

	next := s
	next.Previous, next.Operator = "", ""
	if errored {
		next.Current = ""
		next.Display = ErrorDisplay
		return Result{State: next, Display: next.Display, Error: true}
	}

	formatted := FormatNumber(result)
	next.Current = formatted
	next.Display = formatted
	return Result{
		State:   next,
		Display: formatted,
		History: fmt.Sprintf("%s %s %s = %s", s.Previous, s.Operator, s.Current, formatted),
	}
}

func applyMemory(s State, t Token) Result {
	var entry string
	changed := false

	switch t {
	case TokenMemAdd, TokenMemSub:
		src := s.Current
		if src == "" {
			src = s.Display
		}
		v, ok := ParseNumber(src)
		if !ok {
			return Result{State: s, Display: s.Display}
		}
		if t == TokenMemAdd {
			s.Memory.Value += v
		} else {
			s.Memory.Value -= v
		}
		s.Memory.Set = true
		changed = true
		entry = fmt.Sprintf("%s %s → memory=%s", t, FormatNumber(v), FormatNumber(s.Memory.Value))

	case TokenMemRecall:
		s.Current = FormatNumber(s.Memory.Value)
		s.Display = s.Current
		entry = fmt.Sprintf("MR → %s", s.Current)

	case TokenMemClear:
		s.Memory = Memory{}
		changed = true
		entry = "MC → cleared"
	}

	return Result{State: s, Display: s.Display, History: entry, MemoryChanged: changed}
}

func displayOf(current string) string {
	if current == "" {
		return "0"
	}
	return current
}
