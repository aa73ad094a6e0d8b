package domain

import "time"

// Conversation is an ordered exchange of user and assistant messages,
// grounded in the documents ingested into its scope.
type Conversation struct {
	// ID is the unique identifier for the conversation.
	ID string

	// Title is the human-readable conversation title.
	Title string

	// MessageCount is the number of messages in the conversation.
	MessageCount int

	// CreatedAt is when the conversation was created.
	CreatedAt time.Time
}

// MessageRole identifies the author of a message.
type MessageRole string

const (
	// RoleSystem is the system instruction role.
	RoleSystem MessageRole = "system"

	// RoleUser is the human author role.
	RoleUser MessageRole = "user"

	// RoleAssistant is the generated-response role.
	RoleAssistant MessageRole = "assistant"
)

// MessageState tracks the lifecycle of an assistant message.
// Valid transitions: pending -> streaming -> complete | error.
// User messages are always created complete.
type MessageState string

const (
	// StatePending means the placeholder exists but generation has not begun.
	StatePending MessageState = "pending"

	// StateStreaming means cumulative content is being committed.
	StateStreaming MessageState = "streaming"

	// StateComplete means the generation stream ended normally.
	StateComplete MessageState = "complete"

	// StateError means generation failed; partial content is retained.
	StateError MessageState = "error"
)

// Terminal reports whether the state admits no further transitions.
func (s MessageState) Terminal() bool {
	return s == StateComplete || s == StateError
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition.
func (s MessageState) CanTransitionTo(next MessageState) bool {
	switch s {
	case StatePending:
		return next == StateStreaming || next == StateError
	case StateStreaming:
		return next == StateStreaming || next == StateComplete || next == StateError
	default:
		return false
	}
}

// Message is a single conversation turn.
// Assistant messages are mutated in place only by their owning turn's
// orchestrator while streaming.
type Message struct {
	// ID is the unique identifier for the message.
	ID string

	// ConversationID links to the owning conversation.
	ConversationID string

	// Role is the message author.
	Role MessageRole

	// Content is the message text. For streaming assistant messages this
	// is the cumulative text committed so far.
	Content string

	// State is the lifecycle state. User messages are created complete.
	State MessageState

	// Error holds the failure reason when State is error.
	Error string

	// CreatedAt is when the message was created.
	CreatedAt time.Time

	// UpdatedAt is when the message content or state last changed.
	UpdatedAt time.Time
}
