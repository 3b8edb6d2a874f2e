package ash

import (
	"bufio"
	"context"
	"io"
)

// lineReader turns a blocking reader into context-aware line reads. A
// single goroutine owns the underlying scanner; cancelling a read leaves
// the pending line in the channel for the next call.
type lineReader struct {
	lines chan string
	done  chan struct{}
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{
		lines: make(chan string),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(lr.done)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			lr.lines <- sc.Text()
		}
	}()
	return lr
}

// ReadLine returns the next line without its newline. It returns io.EOF
// when the input is exhausted and the context error when cancelled first.
func (lr *lineReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case line := <-lr.lines:
		return line, nil
	case <-lr.done:
		return "", io.EOF
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
