// Package speech provides the robot's ears and mouth.
//
// Listening records one utterance from the microphone and transcribes
// it through the Google speech API. Speaking synthesizes MP3 audio
// through the Google Translate TTS endpoint and plays it with whatever
// command-line player the system has. Both sides are behind small
// interfaces so the interaction loop can run against mocks.
//
// Example usage:
//
//	rec, _ := speech.NewGoogleRecognizer(
//	    speech.WithAPIKey(key),
//	    speech.WithLanguage("en"),
//	)
//	text, err := rec.Listen(ctx)
package speech

import (
	"context"
	"errors"
	"strings"
)

// Recognizer turns one utterance into text.
type Recognizer interface {
	// Listen records a single phrase and returns the transcript.
	// Returns ErrNoSpeech when nothing intelligible was heard.
	Listen(ctx context.Context) (string, error)

	// Close releases resources.
	Close() error
}

// Speaker says text out loud, returning when playback finishes.
type Speaker interface {
	Say(ctx context.Context, text string) error
	Close() error
}

// Sentinel errors.
var (
	// ErrNoSpeech means the recording contained nothing intelligible.
	ErrNoSpeech = errors.New("speech: no speech detected")

	// ErrNoAPIKey is returned when the recognition key is missing.
	ErrNoAPIKey = errors.New("speech: API key required")

	// ErrNoMicrophone means no capture device or recording tool exists.
	ErrNoMicrophone = errors.New("speech: no microphone available")

	// ErrEmptyText is returned when there is nothing to say.
	ErrEmptyText = errors.New("speech: empty text")

	// ErrNoPlayer means no playback command is installed.
	ErrNoPlayer = errors.New("speech: no audio player available")
)

// maxChunkLen is the longest text fragment sent to the synthesizer in
// one request. The endpoint rejects long q parameters.
const maxChunkLen = 200

// splitChunks cuts text into fragments of at most limit characters,
// breaking on sentence ends where possible and on spaces otherwise.
// Words longer than the limit are cut mid-word.
func splitChunks(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
	}

	for _, word := range strings.Fields(text) {
		for len(word) > limit {
			flush()
			chunks = append(chunks, word[:limit])
			word = word[limit:]
		}
		if word == "" {
			continue
		}

		need := len(word)
		if cur.Len() > 0 {
			need++
		}
		if cur.Len()+need > limit {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)

		// Prefer starting a fresh chunk after a sentence end once the
		// current one is reasonably full.
		if cur.Len() > limit/2 && endsSentence(word) {
			flush()
		}
	}
	flush()
	return chunks
}

func endsSentence(word string) bool {
	return strings.HasSuffix(word, ".") ||
		strings.HasSuffix(word, "!") ||
		strings.HasSuffix(word, "?")
}
