package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseKey maps the label of a single calculator key to its event.
//
// Accepted labels: "0"-"9", ".", "+", "-", "*", "x", "×", "/", "÷", "=",
// "C", "AC", "⌫" and "BS" (case-insensitive).
func ParseKey(key string) (Event, error) {
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return Digit(key[0]), nil
	}

	switch strings.ToUpper(key) {
	case ".":
		return Decimal(), nil
	case "=":
		return Equals(), nil
	case "C", "AC":
		return Clear(), nil
	case "⌫", "BS":
		return Backspace(), nil
	}

	if op, err := ParseOperator(strings.ToLower(key)); err == nil {
		return Press(op), nil
	}
	return Event{}, fmt.Errorf("unknown key %q", key)
}

// ParseKeys maps each label in keys to its event.
func ParseKeys(keys []string) ([]Event, error) {
	events := make([]Event, 0, len(keys))
	for i, k := range keys {
		e, err := ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// ParseKeyString splits a compact key sequence such as "12.5×3=" into one
// event per character. Whitespace is ignored.
func ParseKeyString(s string) ([]Event, error) {
	events := make([]Event, 0, utf8.RuneCountInString(s))
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' {
			continue
		}
		e, err := ParseKey(string(r))
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", i, err)
		}
		events = append(events, e)
	}
	return events, nil
}
