package calc

import "strings"

// KeyEvent describes a physical key press. Key is the produced character or
// key name ("7", "Enter", "Escape"); Code is the physical key identifier
// ("NumpadAdd"), used to recognise numeric keypad keys.
type KeyEvent struct {
	Key   string `json:"key"`
	Code  string `json:"code,omitempty"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Alt   bool   `json:"alt,omitempty"`
	Shift bool   `json:"shift,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
}

// MapKey translates a key press into a token. The "m" key drives memory:
// Ctrl/Meta+M is M+, Alt+M is M-, Shift+M is MC and a plain m is MR.
func MapKey(e KeyEvent) (Token, bool) {
	if strings.EqualFold(e.Key, "m") {
		switch {
		case e.Ctrl || e.Meta:
			return TokenMemAdd, true
		case e.Alt:
			return TokenMemSub, true
		case e.Shift:
			return TokenMemClear, true
		default:
			return TokenMemRecall, true
		}
	}

	key, code := e.Key, e.Code
	switch {
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		return Token(key), true
	case key == "." || code == "NumpadDecimal" || key == "Decimal":
		return TokenDecimal, true
	case key == "+" || code == "NumpadAdd":
		return TokenAdd, true
	case key == "-" || code == "NumpadSubtract":
		return TokenSubtract, true
	case key == "*" || code == "NumpadMultiply":
		return TokenMultiply, true
	case key == "/" || code == "NumpadDivide":
		return TokenDivide, true
	case key == "=" || key == "Enter" || code == "NumpadEnter":
		return TokenEquals, true
	case key == "Backspace" || key == "Delete":
		return TokenBackspace, true
	case key == "Escape" || key == "c" || key == "C":
		return TokenClear, true
	}
	return "", false
}
