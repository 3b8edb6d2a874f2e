package brain

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Exchange is one prompt/reply pair of the conversation.
type Exchange struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}

// Transcript persists exchanges to a JSON file so conversations survive
// restarts. It is append-only; the robot never edits what was said.
type Transcript struct {
	path string

	mu      sync.Mutex
	entries []Exchange
}

// transcriptData is the JSON structure of the transcript file.
type transcriptData struct {
	Version   int        `json:"version"`
	UpdatedAt string     `json:"updated_at"`
	Exchanges []Exchange `json:"exchanges"`
}

const transcriptVersion = 1

// OpenTranscript opens or creates a transcript at the given path.
func OpenTranscript(path string) (*Transcript, error) {
	t := &Transcript{path: path}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := t.load(); err != nil {
			return nil, fmt.Errorf("failed to load transcript: %w", err)
		}
	}
	return t, nil
}

// load reads the transcript from disk.
func (t *Transcript) load() error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var stored transcriptData
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	t.entries = stored.Exchanges
	return nil
}

// save writes the transcript to disk. Write to a temp file and rename
// so a crash never truncates the real file.
func (t *Transcript) save() error {
	stored := transcriptData{
		Version:   transcriptVersion,
		UpdatedAt: time.Now().Format(time.RFC3339),
		Exchanges: t.entries,
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tmpPath := t.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, t.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Append records one exchange and persists it.
func (t *Transcript) Append(prompt, reply string) (Exchange, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := Exchange{
		ID:        uuid.New().String(),
		Prompt:    prompt,
		Reply:     reply,
		CreatedAt: time.Now(),
	}
	t.entries = append(t.entries, e)
	if err := t.save(); err != nil {
		return Exchange{}, err
	}
	return e, nil
}

// Recent returns the last n exchanges, oldest first.
func (t *Transcript) Recent(n int) []Exchange {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n <= 0 || n > len(t.entries) {
		n = len(t.entries)
	}
	out := make([]Exchange, n)
	copy(out, t.entries[len(t.entries)-n:])
	return out
}

// Len returns the number of recorded exchanges.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Path returns the file path of the transcript.
func (t *Transcript) Path() string {
	return t.path
}
