package calculator

// CalcRequest is the JSON body for binary operations (add, subtract, multiply, divide).
type CalcRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// CalcResponse is the JSON response for binary operations. Result is the
// corrupted value; the true one is never returned.
type CalcResponse struct {
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    float64 `json:"result"`
	Display   string  `json:"display"`
	Precision int     `json:"precision"`
}

// SessionResponse renders a session's display.
type SessionResponse struct {
	ID      string `json:"id"`
	Display string `json:"display"`
}

// EventsRequest is the JSON body for POST /calculator/sessions/{id}/events.
// Either Event or Events must be set; Event is applied first.
type EventsRequest struct {
	Event  string   `json:"event,omitempty"`
	Events []string `json:"events,omitempty"`
}

// keys returns the key labels in application order.
func (r EventsRequest) keys() []string {
	if r.Event == "" {
		return r.Events
	}
	return append([]string{r.Event}, r.Events...)
}

// PressRequest is the JSON body for POST /calculator/press.
type PressRequest struct {
	Keys string `json:"keys"` // e.g. "12.5×3="
}

// PressResponse is the JSON response for POST /calculator/press.
type PressResponse struct {
	Keys       string       `json:"keys"`
	Display    string       `json:"display"`
	Operations []FoldResult `json:"operations"`
}

// FoldResult is one operation completed while replaying keys.
type FoldResult struct {
	Op     string  `json:"op"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Result float64 `json:"result"`
}
