// Package core holds the calculator's key-press state machine and the
// corruption step that makes every completed operation slightly wrong.
package core

// State is the complete calculator session: what the display shows, the
// left-hand operand and operator held while the right-hand one is typed,
// and whether the next digit replaces or extends the display.
//
// A State is a plain value. Transitions return a new State and never modify
// the one they were given, including the pointed-to Operand.
type State struct {
	Display  string   `json:"display"`
	Operand  *float64 `json:"operand,omitempty"`
	Operator Operator `json:"operator,omitempty"`
	// Awaiting is set after an operator or equals press: the next digit or
	// decimal point starts a new entry instead of appending.
	Awaiting bool `json:"awaiting,omitempty"`
}

// NewState returns the state of a freshly started session.
func NewState() State {
	return State{Display: "0"}
}

// HasOperand reports whether a left-hand operand is pending.
func (s State) HasOperand() bool {
	return s.Operand != nil
}

func (s State) withOperand(v float64) State {
	s.Operand = &v
	return s
}

// EventKind discriminates calculator key presses.
type EventKind int

const (
	EventDigit EventKind = iota
	EventDecimal
	EventOperator
	EventEquals
	EventClear
	EventBackspace
)

func (k EventKind) String() string {
	switch k {
	case EventDigit:
		return "digit"
	case EventDecimal:
		return "decimal"
	case EventOperator:
		return "operator"
	case EventEquals:
		return "equals"
	case EventClear:
		return "clear"
	case EventBackspace:
		return "backspace"
	default:
		return "unknown"
	}
}

// Event is a single key press forwarded by the presentation layer.
// Digit is set only for EventDigit, Operator only for EventOperator.
type Event struct {
	Kind     EventKind
	Digit    byte
	Operator Operator
}

func Digit(d byte) Event { return Event{Kind: EventDigit, Digit: d} }
func Decimal() Event { return Event{Kind: EventDecimal} }
func Press(op Operator) Event { return Event{Kind: EventOperator, Operator: op} }
func Equals() Event { return Event{Kind: EventEquals} }
func Clear() Event { return Event{Kind: EventClear} }
func Backspace() Event { return Event{Kind: EventBackspace} }
