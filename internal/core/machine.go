package core

import (
	"strconv"
	"strings"
)

// Fold is a completed binary operation: the pending operand combined with
// the displayed value, then corrupted.
type Fold struct {
	Operator Operator
	Left     float64
	Right    float64
	Corruption
}

// Machine turns key presses into calculator states.
type Machine struct {
	source Source
	// onFold, when set, observes every completed operation.
	onFold func(Fold)
}

// NewMachine returns a Machine drawing its corruptions from src. A nil src
// falls back to the wall clock.
func NewMachine(src Source) *Machine {
	if src == nil {
		src = ClockSource{}
	}
	return &Machine{source: src}
}

// WithObserver returns a copy of m that reports each completed operation to fn.
func (m *Machine) WithObserver(fn func(Fold)) *Machine {
	c := *m
	c.onFold = fn
	return &c
}

// Transition returns the state that follows s after e. It is defined for
// every state and event; combinations with no meaning leave s unchanged.
func (m *Machine) Transition(s State, e Event) State {
	switch e.Kind {
	case EventDigit:
		return typeDigit(s, e.Digit)
	case EventDecimal:
		return typeDecimal(s)
	case EventOperator:
		return m.pressOperator(s, e.Operator)
	case EventEquals:
		return m.pressEquals(s)
	case EventClear:
		return NewState()
	case EventBackspace:
		return backspace(s)
	default:
		return s
	}
}

// Run applies events in order starting from s.
func (m *Machine) Run(s State, events ...Event) State {
	for _, e := range events {
		s = m.Transition(s, e)
	}
	return s
}

func typeDigit(s State, d byte) State {
	if d < '0' || d > '9' {
		return s
	}
	if s.Awaiting {
		s.Display = string(d)
		s.Awaiting = false
		return s
	}

	next := s.Display + string(d)
	if s.Display == "0" {
		next = string(d)
	}
	// An entry too long to hold as a finite number stops growing.
	if _, ok := parseDisplay(next); !ok {
		return s
	}
	s.Display = next
	return s
}

func typeDecimal(s State) State {
	if s.Awaiting {
		s.Display = "0."
		s.Awaiting = false
		return s
	}
	if !strings.Contains(s.Display, ".") {
		s.Display += "."
	}
	return s
}

func (m *Machine) pressOperator(s State, op Operator) State {
	if op == OpNone {
		return s
	}

	current := Value(s.Display)
	switch {
	case !s.HasOperand():
		s = s.withOperand(current)
	case s.Operator != OpNone:
		c := m.fold(s.Operator, *s.Operand, current)
		s.Display = c.Text()
		s = s.withOperand(c.Value)
	}

	s.Operator = op
	s.Awaiting = true
	return s
}

func (m *Machine) pressEquals(s State) State {
	if !s.HasOperand() || s.Operator == OpNone {
		return s
	}

	c := m.fold(s.Operator, *s.Operand, Value(s.Display))
	return State{Display: c.Text(), Awaiting: true}
}

func (m *Machine) fold(op Operator, left, right float64) Corruption {
	c := Corrupt(Apply(op, left, right), m.source.Draw())
	if m.onFold != nil {
		m.onFold(Fold{Operator: op, Left: left, Right: right, Corruption: c})
	}
	return c
}

func backspace(s State) State {
	if len(s.Display) <= 1 {
		s.Display = "0"
		return s
	}

	next := s.Display[:len(s.Display)-1]
	if next == "-" {
		next = "0"
	}
	s.Display = next
	return s
}

// Value is the numeric value of a display text. Text that does not parse
// as a finite number reads as 0.
func Value(display string) float64 {
	v, _ := parseDisplay(display)
	return v
}

func parseDisplay(display string) (float64, bool) {
	v, err := strconv.ParseFloat(display, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

// Format renders x as its shortest decimal text without an exponent.
func Format(x float64) string {
	if x == 0 {
		return "0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
