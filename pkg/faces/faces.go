// Package faces preloads the robot's facial expressions into memory so the
// interaction loop can swap faces without touching the filesystem.
package faces

import "fmt"

// Face art geometry. Every expression image must match the panel exactly.
const (
	Width  = 480
	Height = 320
)

// Expression names one of the robot's faces. The set is closed: the cache
// loads all of them up front and refuses to load partially.
type Expression string

const (
	Neutral   Expression = "neutral"
	Happy     Expression = "happy"
	Sad       Expression = "sad"
	Listening Expression = "listening"
	Speaking  Expression = "speaking"
	Thinking  Expression = "thinking"
	Error     Expression = "error"
)

// All returns every expression in display order.
func All() []Expression {
	return []Expression{Neutral, Happy, Sad, Listening, Speaking, Thinking, Error}
}

// Parse converts a string into an Expression.
func Parse(s string) (Expression, error) {
	for _, e := range All() {
		if s == string(e) {
			return e, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownExpression, s)
}

// Valid reports whether e is one of the known expressions.
func (e Expression) Valid() bool {
	_, err := Parse(string(e))
	return err == nil
}

func (e Expression) String() string { return string(e) }
