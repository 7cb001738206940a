// Package calc implements the calculator: a pure expression engine, a bounded
// history log, key mapping, and a controller that persists memory and
// history through a kv.Store.
package calc

import (
	"errors"
	"fmt"
)

// ErrUnknownToken is returned when input does not name a calculator token.
var ErrUnknownToken = errors.New("unknown token")

// Token is a single calculator input.
type Token string

const (
	TokenDecimal   Token = "."
	TokenAdd       Token = "+"
	TokenSubtract  Token = "-"
	TokenMultiply  Token = "*"
	TokenDivide    Token = "/"
	TokenEquals    Token = "="
	TokenClear     Token = "AC"
	TokenBackspace Token = "backspace"
	TokenMemAdd    Token = "M+"
	TokenMemSub    Token = "M-"
	TokenMemRecall Token = "MR"
	TokenMemClear  Token = "MC"
)

// IsDigit reports whether t is one of "0" through "9".
func (t Token) IsDigit() bool {
	return len(t) == 1 && t[0] >= '0' && t[0] <= '9'
}

// IsOperator reports whether t is a binary operator.
func (t Token) IsOperator() bool {
	switch t {
	case TokenAdd, TokenSubtract, TokenMultiply, TokenDivide:
		return true
	}
	return false
}

// IsMemory reports whether t is one of the memory operations.
func (t Token) IsMemory() bool {
	switch t {
	case TokenMemAdd, TokenMemSub, TokenMemRecall, TokenMemClear:
		return true
	}
	return false
}

// Kind names the token class, used for metrics labels.
func (t Token) Kind() string {
	switch {
	case t.IsDigit(), t == TokenDecimal:
		return "digit"
	case t.IsOperator():
		return "operator"
	case t.IsMemory():
		return "memory"
	case t == TokenEquals:
		return "equals"
	case t == TokenClear:
		return "clear"
	case t == TokenBackspace:
		return "backspace"
	}
	return "unknown"
}

// ParseToken validates s as a calculator token.
func ParseToken(s string) (Token, error) {
	t := Token(s)
	if t.IsDigit() || t.IsOperator() || t.IsMemory() {
		return t, nil
	}
	switch t {
	case TokenDecimal, TokenEquals, TokenClear, TokenBackspace:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownToken, s)
}

// ParseTokens validates each element of ss.
func ParseTokens(ss []string) ([]Token, error) {
	tokens := make([]Token, 0, len(ss))
	for _, s := range ss {
		t, err := ParseToken(s)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}
