// Package history keeps the bounded, per-credential conversation history
// the relay replays to the upstream model on every request.
package history

import "github.com/flemzord/chatrelay/internal/provider"

// Exchange represents a single user-assistant exchange in a conversation.
type Exchange struct {
	UserMessage      provider.LLMMessage
	AssistantMessage provider.LLMMessage
}

// NewExchange builds an exchange from a question and its answer.
func NewExchange(question, answer string) Exchange {
	return Exchange{
		UserMessage:      provider.LLMMessage{Role: provider.MessageRoleUser, Content: question},
		AssistantMessage: provider.LLMMessage{Role: provider.MessageRoleAssistant, Content: answer},
	}
}

// Messages returns the user turn followed by the assistant turn.
func (e Exchange) Messages() []provider.LLMMessage {
	return []provider.LLMMessage{e.UserMessage, e.AssistantMessage}
}

// Store manages session conversation history keyed by credential.
// Each session retains at most a fixed number of turns (single messages),
// dropping the oldest first. Sessions are created on first use and live for
// the lifetime of the store.
// Implementations must be safe for concurrent use, and operations on
// different keys must not block one another.
type Store interface {
	// Recent returns the retained turns for key, oldest first,
	// creating an empty session if none exists.
	Recent(key string) []provider.LLMMessage

	// Append records both turns of ex for key, evicting the oldest turns
	// when the session is at capacity.
	Append(key string, ex Exchange)

	// Sessions returns the number of sessions created so far.
	Sessions() int
}
