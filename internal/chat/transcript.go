// Package chat implements the request/response loop behind the chat page.
package chat

import "github.com/diogo/intellibrowse/internal/models"

// Transcript is the ordered, append-only list of chat turns shown on screen
type Transcript struct {
	turns []models.ChatTurn
}

// Append adds a turn at the end and returns its index
func (t *Transcript) Append(turn models.ChatTurn) int {
	t.turns = append(t.turns, turn)
	return len(t.turns) - 1
}

// Replace swaps the whole transcript, typically for server history
func (t *Transcript) Replace(turns []models.ChatTurn) {
	t.turns = append([]models.ChatTurn(nil), turns...)
}

// Clear empties the transcript
func (t *Transcript) Clear() {
	t.turns = nil
}

// Len returns the number of turns
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Last returns the newest turn
func (t *Transcript) Last() (models.ChatTurn, bool) {
	if len(t.turns) == 0 {
		return models.ChatTurn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// Turns returns a copy of the turns in order
func (t *Transcript) Turns() []models.ChatTurn {
	return append([]models.ChatTurn(nil), t.turns...)
}
