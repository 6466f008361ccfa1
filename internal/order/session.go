package order

import "time"

// Data accumulates the collected order fields. Each field is set exactly once,
// in stage order, and is never edited by a later stage.
type Data struct {
	Product string `json:"product,omitempty"`
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Session is one in-progress order collection conversation.
// Invariant: Active is true exactly when Stage != StageIdle.
type Session struct {
	ConversationID string    `json:"conversation_id"`
	Active         bool      `json:"active"`
	Stage          Stage     `json:"stage"`
	Data           Data      `json:"data"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewSession returns an idle session for the given conversation.
func NewSession(conversationID string) *Session {
	return &Session{
		ConversationID: conversationID,
		Stage:          StageIdle,
	}
}

// reset returns the session to the idle stage and clears all collected data.
func (s *Session) reset() {
	s.Active = false
	s.Stage = StageIdle
	s.Data = Data{}
}
