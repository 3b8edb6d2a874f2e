// Package brain provides the robot's conversational AI.
//
// The package abstracts the chat loop behind a small Provider interface
// so the interaction loop can run against the Gemini API, a mock, or
// nothing at all. Providers keep a rolling conversation history; one
// provider serves one conversation.
//
// Example usage:
//
//	b, _ := brain.NewGemini(
//	    brain.WithAPIKey(os.Getenv("GEMINI_API_KEY")),
//	    brain.WithModel("gemini-1.5-flash"),
//	)
//	defer b.Close()
//
//	answer, err := b.Ask(ctx, "What's the tallest mountain?")
package brain

import (
	"context"
	"strings"
)

// Canned replies. The robot always says something, even when the model
// call fails, so these are part of its voice.
const (
	// ReplyDidNotCatch is spoken when the prompt is empty.
	ReplyDidNotCatch = "I didn't catch that. Could you repeat?"

	// ReplyTroubleThinking is spoken when the model call fails.
	ReplyTroubleThinking = "Sorry, I had trouble thinking of a response."
)

// Provider is the conversation interface. Ask always returns a
// speakable answer: when the underlying call fails the answer is a
// canned apology and the error describes the failure, matching the
// fallback-plus-error style used elsewhere in the codebase.
//
// Providers are not safe for concurrent use. The interaction loop is
// strictly serial.
type Provider interface {
	// Ask sends the prompt and returns the reply.
	Ask(ctx context.Context, prompt string) (string, error)

	// Reset clears the conversation history.
	Reset()

	// Health checks connectivity and key validity.
	Health(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Role identifies who said a message.
type Role string

// Gemini wire roles. The API calls the assistant "model".
const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of the conversation.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Answer length limits. Long answers take forever to speak aloud, so
// anything over the cap is cut down to its first sentences.
const (
	maxAnswerLen  = 500
	maxSentences  = 2
	sentenceBreak = ". "
)

// trimAnswer shortens an overlong answer to its first sentences.
func trimAnswer(answer string) string {
	answer = strings.TrimSpace(answer)
	if len(answer) <= maxAnswerLen {
		return answer
	}

	sentences := strings.Split(answer, sentenceBreak)
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}
	answer = strings.Join(sentences, sentenceBreak)
	if !strings.HasSuffix(answer, ".") {
		answer += "."
	}
	return answer
}
