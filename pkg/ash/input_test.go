package ash

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLineReaderSequence(t *testing.T) {
	ctx := context.Background()
	lr := newLineReader(strings.NewReader("one\ntwo\n"))

	for _, want := range []string{"one", "two"} {
		got, err := lr.ReadLine(ctx)
		if err != nil {
			t.Fatalf("ReadLine failed: %v", err)
		}
		if got != want {
			t.Errorf("ReadLine = %q, want %q", got, want)
		}
	}

	if _, err := lr.ReadLine(ctx); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF after input ends, got %v", err)
	}
}

func TestLineReaderLastLineWithoutNewline(t *testing.T) {
	lr := newLineReader(strings.NewReader("only"))

	got, err := lr.ReadLine(context.Background())
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if got != "only" {
		t.Errorf("ReadLine = %q", got)
	}
}

func TestLineReaderCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	lr := newLineReader(pr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := lr.ReadLine(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
