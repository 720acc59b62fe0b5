// Package chat relays questions to the backend's health assistant.
package chat

// MaxPromptLength caps a single question, in runes.
const MaxPromptLength = 2000

// FailureReply is shown in place of an answer when the assistant fails.
const FailureReply = "Sorry, I encountered an error. Please try again."

type Prompt struct {
	Prompt string `json:"prompt"`
}

type Answer struct {
	Reply string `json:"reply"`
}
