package internal

import "slices"

// HistoryWindow is the number of trailing turns sent along with a request
const HistoryWindow = 3

// Conversation is the ordered Q&A history of a session.
// Turns are only ever appended or cleared all at once.
type Conversation struct {
	turns []Turn
}

// NewConversation returns an empty conversation
func NewConversation() *Conversation {
	return &Conversation{}
}

// Append adds a turn at the end
func (c *Conversation) Append(turn Turn) {
	c.turns = append(c.turns, turn)
}

// LastN returns a copy of the trailing n turns, or fewer if the history is shorter
func (c *Conversation) LastN(n int) []Turn {
	return LastTurns(c.turns, n)
}

// Turns returns a copy of the full history
func (c *Conversation) Turns() []Turn {
	return slices.Clone(c.turns)
}

// Len returns the number of turns
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Clear drops every turn
func (c *Conversation) Clear() {
	c.turns = nil
}

// LastTurns returns a copy of the trailing n turns of history
func LastTurns(history []Turn, n int) []Turn {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return slices.Clone(history)
}
