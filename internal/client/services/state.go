package services

// MessageKind tells a UI how to style a status message.
type MessageKind int

const (
	MessageError MessageKind = iota
	MessageInfo
)

func (k MessageKind) String() string {
	if k == MessageInfo {
		return "info"
	}
	return "error"
}

// Message is the last status line produced by the gate.
type Message struct {
	Kind MessageKind
	Text string
}

// State is an immutable snapshot of the gate's observable fields.
//
// Email and Password mirror the input fields last handed to the gate.
// CurrentUserID and SessionEmail identify the logged-in account and are
// empty when nobody is logged in; only a successful Login sets them.
type State struct {
	Email         string
	Password      string
	Authenticated bool
	Message       *Message
	CurrentUserID string
	SessionEmail  string
}

// ErrorText returns the message text when the message is an error, or "".
func (s State) ErrorText() string {
	if s.Message == nil || s.Message.Kind != MessageError {
		return ""
	}
	return s.Message.Text
}

func (s State) clone() State {
	c := s
	if s.Message != nil {
		m := *s.Message
		c.Message = &m
	}
	return c
}
