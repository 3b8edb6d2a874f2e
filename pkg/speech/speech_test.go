package speech

import (
	"strings"
	"testing"
)

func TestSplitChunksShortText(t *testing.T) {
	if got := splitChunks("", 200); got != nil {
		t.Errorf("Empty text should yield no chunks, got %v", got)
	}

	text := "Hello there, robot."
	got := splitChunks(text, 200)
	if len(got) != 1 || got[0] != text {
		t.Errorf("Short text should be one chunk, got %v", got)
	}
}

func TestSplitChunksRespectsLimit(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 60; i++ {
		sb.WriteString("word ")
	}
	text := strings.TrimSpace(sb.String())

	chunks := splitChunks(text, 50)
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 50 {
			t.Errorf("Chunk %d is %d chars, over the limit", i, len(c))
		}
	}

	// No words lost or mangled.
	rejoined := strings.Join(chunks, " ")
	if rejoined != text {
		t.Error("Chunks do not reassemble into the original text")
	}
}

func TestSplitChunksPrefersSentenceEnds(t *testing.T) {
	text := "This is the first sentence of the reply. And here comes another one."
	chunks := splitChunks(text, 45)
	if len(chunks) < 2 {
		t.Fatalf("Expected a split, got %v", chunks)
	}
	if !strings.HasSuffix(chunks[0], ".") {
		t.Errorf("First chunk should end at a sentence boundary, got %q", chunks[0])
	}
}

func TestSplitChunksHardCutsLongWords(t *testing.T) {
	word := strings.Repeat("x", 120)
	chunks := splitChunks(word, 50)
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks for a 120-char word at limit 50, got %d", len(chunks))
	}
	if strings.Join(chunks, "") != word {
		t.Error("Hard-cut chunks do not reassemble the word")
	}
}
