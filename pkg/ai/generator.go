package ai

import "context"

// Turn is one role/content pair of the conversation sent to the model,
// oldest first.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TextGenerator produces one reply for an ordered transcript of turns.
// All completion providers implement this interface.
type TextGenerator interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
}
