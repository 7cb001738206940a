package calc

import (
	"strings"
	"testing"
)

func run(t *testing.T, tokens ...Token) (Result, []string) {
	t.Helper()
	return ApplyAll(NewState(Memory{}), tokens)
}

func TestDigitsAndDecimal(t *testing.T) {
	r, _ := run(t, "1", ".", ".", "5", ".")
	if r.State.Current != "1.5" {
		t.Errorf("Current = %q, want 1.5", r.State.Current)
	}
	if r.Display != "1.5" {
		t.Errorf("Display = %q, want 1.5", r.Display)
	}
}

func TestNeverTwoDecimalPoints(t *testing.T) {
	alphabet := []Token{"0", "1", "9", TokenDecimal}
	// Every sequence of length 6 over the alphabet.
	total := 1
	for i := 0; i < 6; i++ {
		total *= len(alphabet)
	}
	for n := 0; n < total; n++ {
		s := NewState(Memory{})
		for i, k := 0, n; i < 6; i, k = i+1, k/len(alphabet) {
			s = Apply(s, alphabet[k%len(alphabet)]).State
		}
		if c := strings.Count(s.Current, "."); c > 1 {
			t.Fatalf("sequence %d produced %q with %d decimal points", n, s.Current, c)
		}
	}
}

func TestChainedOperatorsEvaluateLeftToRight(t *testing.T) {
	r, history := run(t, "2", "+", "3", "*", "4", "=")
	if r.Display != "20" {
		t.Errorf("Display = %q, want 20", r.Display)
	}
	want := []string{"2 + 3 = 5", "5 * 4 = 20"}
	if len(history) != len(want) {
		t.Fatalf("history = %v, want %v", history, want)
	}
	for i := range want {
		if history[i] != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, history[i], want[i])
		}
	}
}

func TestChainedOperatorShowsIntermediateResult(t *testing.T) {
	r, _ := run(t, "2", "+", "3", "*")
	if r.Display != "5" {
		t.Errorf("Display = %q, want 5", r.Display)
	}
	if r.State.Previous != "5" || r.State.Operator != TokenMultiply || r.State.Current != "" {
		t.Errorf("state = %+v, want previous 5, operator *, empty current", r.State)
	}
}

func TestDivision(t *testing.T) {
	r, history := run(t, "6", "/", "2", "=")
	if r.Display != "3" {
		t.Errorf("Display = %q, want 3", r.Display)
	}
	if len(history) != 1 || history[0] != "6 / 2 = 3" {
		t.Errorf("history = %v, want [6 / 2 = 3]", history)
	}
}

func TestDivisionByZero(t *testing.T) {
	r, history := run(t, "5", "/", "0", "=")
	if r.Display != ErrorDisplay {
		t.Errorf("Display = %q, want %q", r.Display, ErrorDisplay)
	}
	if !r.Error {
		t.Error("Error = false, want true")
	}
	if len(history) != 0 {
		t.Errorf("history = %v, want none", history)
	}
	if r.State.Current != "" || r.State.Previous != "" || r.State.Operator != "" {
		t.Errorf("state not reset: %+v", r.State)
	}
}

func TestDivisionByZeroDecimal(t *testing.T) {
	r, _ := run(t, "5", "/", "0", ".", "0", "=")
	if r.Display != ErrorDisplay {
		t.Errorf("Display = %q, want %q", r.Display, ErrorDisplay)
	}
}

func TestChainedDivisionByZeroDropsOperator(t *testing.T) {
	r, history := run(t, "5", "/", "0", "+")
	if r.Display != ErrorDisplay {
		t.Errorf("Display = %q, want %q", r.Display, ErrorDisplay)
	}
	if r.State.Operator != "" || r.State.Previous != "" {
		t.Errorf("state = %+v, want no pending operation", r.State)
	}
	if len(history) != 0 {
		t.Errorf("history = %v, want none", history)
	}

	// A fresh computation starts cleanly after the error.
	r = Apply(r.State, "4")
	if r.Display != "4" {
		t.Errorf("Display after error = %q, want 4", r.Display)
	}
}

func TestOverflowKeepsInfinity(t *testing.T) {
	s := NewState(Memory{})
	s.Current = "1e+308"
	r, history := ApplyAll(s, []Token{"*", "1", "0", "=", "5", "+", "1", "="})
	if r.Display != "Infinity" {
		t.Errorf("Display = %q, want Infinity", r.Display)
	}
	if len(history) != 2 || history[1] != "Infinity5 + 1 = Infinity" {
		t.Errorf("history = %v", history)
	}
}

func TestFloatingPointResult(t *testing.T) {
	r, history := run(t, ".", "1", "+", ".", "2", "=")
	if r.Display != "0.30000000000000004" {
		t.Errorf("Display = %q", r.Display)
	}
	if history[0] != ".1 + .2 = 0.30000000000000004" {
		t.Errorf("history[0] = %q", history[0])
	}
}

func TestOperatorWithoutOperandIsNoop(t *testing.T) {
	s := NewState(Memory{})
	r := Apply(s, TokenAdd)
	if r.State != s {
		t.Errorf("state changed: %+v", r.State)
	}
}

func TestEqualsWithoutOperandsIsNoop(t *testing.T) {
	for _, tokens := range [][]Token{
		{"="},
		{"3", "="},
		{"3", "+", "="},
	} {
		before, _ := run(t, tokens[:len(tokens)-1]...)
		after := Apply(before.State, TokenEquals)
		if after.State != before.State {
			t.Errorf("%v: state changed from %+v to %+v", tokens, before.State, after.State)
		}
		if after.History != "" {
			t.Errorf("%v: history = %q, want none", tokens, after.History)
		}
	}
}

func TestBackspace(t *testing.T) {
	r, _ := run(t, "1", "2", TokenBackspace)
	if r.State.Current != "1" || r.Display != "1" {
		t.Errorf("after one backspace: current %q display %q", r.State.Current, r.Display)
	}
	r = Apply(r.State, TokenBackspace)
	if r.State.Current != "" {
		t.Errorf("Current = %q, want empty", r.State.Current)
	}
	if r.Display != "0" {
		t.Errorf("Display = %q, want 0", r.Display)
	}
}

func TestBackspaceOnEmptyIsNoop(t *testing.T) {
	s := NewState(Memory{})
	r := Apply(s, TokenBackspace)
	if r.State != s {
		t.Errorf("state changed: %+v", r.State)
	}
	if r.Display != "0" {
		t.Errorf("Display = %q, want 0", r.Display)
	}
}

func TestAllClearMidChain(t *testing.T) {
	r, _ := run(t, "2", "+", "3", "*", "4", TokenClear)
	if r.State.Current != "" || r.State.Previous != "" || r.State.Operator != "" {
		t.Errorf("state not cleared: %+v", r.State)
	}
	if r.Display != "0" {
		t.Errorf("Display = %q, want 0", r.Display)
	}
}

func TestAllClearKeepsMemory(t *testing.T) {
	s := NewState(Memory{Value: 4, Set: true})
	r := Apply(s, TokenClear)
	if r.State.Memory != s.Memory {
		t.Errorf("Memory = %+v, want %+v", r.State.Memory, s.Memory)
	}
}

func TestMemoryAddFallsBackToDisplay(t *testing.T) {
	r, _ := run(t, "7", "+")
	if r.State.Current != "" || r.Display != "7" {
		t.Fatalf("setup: current %q display %q", r.State.Current, r.Display)
	}
	r = Apply(r.State, TokenMemAdd)
	if r.State.Memory.Value != 7 || !r.State.Memory.Set {
		t.Errorf("Memory = %+v, want 7 set", r.State.Memory)
	}
	if !r.MemoryChanged {
		t.Error("MemoryChanged = false")
	}
	if r.History != "M+ 7 → memory=7" {
		t.Errorf("History = %q", r.History)
	}
}

func TestMemorySubtract(t *testing.T) {
	s := NewState(Memory{Value: 10, Set: true})
	r, _ := ApplyAll(s, []Token{"2", ".", "5", TokenMemSub})
	if r.State.Memory.Value != 7.5 {
		t.Errorf("Memory = %v, want 7.5", r.State.Memory.Value)
	}
	if r.History != "M- 2.5 → memory=7.5" {
		t.Errorf("History = %q", r.History)
	}
}

func TestMemoryAddMalformedIsNoop(t *testing.T) {
	r, _ := run(t, "5", "/", "0", "=")
	before := r.State
	r = Apply(before, TokenMemAdd)
	if r.State != before {
		t.Errorf("state changed: %+v", r.State)
	}
	if r.History != "" || r.MemoryChanged {
		t.Errorf("History = %q MemoryChanged = %v, want none", r.History, r.MemoryChanged)
	}
}

func TestMemoryRecall(t *testing.T) {
	s := NewState(Memory{Value: -2.5, Set: true})
	r := Apply(s, TokenMemRecall)
	if r.State.Current != "-2.5" || r.Display != "-2.5" {
		t.Errorf("current %q display %q, want -2.5", r.State.Current, r.Display)
	}
	if r.History != "MR → -2.5" {
		t.Errorf("History = %q", r.History)
	}
	if r.MemoryChanged {
		t.Error("MemoryChanged = true for recall")
	}

	r, _ = ApplyAll(r.State, []Token{"*", "2", "="})
	if r.Display != "-5" {
		t.Errorf("Display = %q, want -5", r.Display)
	}
}

func TestMemoryClear(t *testing.T) {
	s := NewState(Memory{Value: 3, Set: true})
	r := Apply(s, TokenMemClear)
	if r.State.Memory != (Memory{}) {
		t.Errorf("Memory = %+v, want empty", r.State.Memory)
	}
	if r.History != "MC → cleared" || !r.MemoryChanged {
		t.Errorf("History = %q MemoryChanged = %v", r.History, r.MemoryChanged)
	}
}

func TestMemoryZeroIsStillSet(t *testing.T) {
	r, _ := run(t, "4", TokenMemAdd, TokenClear, "4", TokenMemSub)
	if r.State.Memory.Value != 0 || !r.State.Memory.Set {
		t.Errorf("Memory = %+v, want 0 and set", r.State.Memory)
	}
}

func TestPending(t *testing.T) {
	r, _ := run(t, "1", "2", "+")
	if got := r.State.Pending(); got != "12 +" {
		t.Errorf("Pending = %q, want \"12 +\"", got)
	}
	if got := NewState(Memory{}).Pending(); got != "" {
		t.Errorf("Pending = %q, want empty", got)
	}
}
