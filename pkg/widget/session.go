package widget

import "docchat/pkg/ai"

// Session is the in-memory state of one chat modal: the ordered message
// history plus the loading and open flags. Messages are only ever
// appended; Reset discards the history as a whole.
type Session struct {
	messages []ai.Message
	loading  bool
	open     bool
}

// NewSession returns an empty, closed, idle session.
func NewSession() *Session {
	return &Session{}
}

// Messages returns a copy of the history.
func (s *Session) Messages() []ai.Message {
	out := make([]ai.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Len() int {
	return len(s.messages)
}

// Last returns the most recent message.
func (s *Session) Last() (ai.Message, bool) {
	if len(s.messages) == 0 {
		return ai.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// LastAssistant returns the most recent assistant reply.
func (s *Session) LastAssistant() (ai.Message, bool) {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == ai.RoleAssistant {
			return s.messages[i], true
		}
	}
	return ai.Message{}, false
}

func (s *Session) IsOpen() bool {
	return s.open
}

func (s *Session) Open() {
	s.open = true
}

func (s *Session) Close() {
	s.open = false
}

// Toggle flips the open flag and reports the new state.
func (s *Session) Toggle() bool {
	s.open = !s.open
	return s.open
}

func (s *Session) IsLoading() bool {
	return s.loading
}

// Reset clears the history. The open flag is kept; a pending request
// must be completed first.
func (s *Session) Reset() bool {
	if s.loading {
		return false
	}
	s.messages = nil
	return true
}

func (s *Session) append(role ai.Role, content string) {
	s.messages = append(s.messages, ai.Message{Role: role, Content: content})
}
