// Package gesture moves the robot's two servo arms and picks an arm
// gesture to go with a line of conversation.
//
// The Controller talks to a PCA9685 PWM board over I2C. When the board
// cannot be reached (development machines, missing wiring) it degrades
// to a simulation driver that only tracks positions, so the rest of the
// app keeps working without hardware.
package gesture

import "strings"

// Gesture identifies one of the built-in arm animations.
type Gesture int

const (
	None Gesture = iota
	Neutral
	Wave
	ArmsUp
	ArmsDown
	Point
)

// Display names, as they appear in console output.
var gestureNames = map[Gesture]string{
	None:     "None",
	Neutral:  "Neutral",
	Wave:     "Wave",
	ArmsUp:   "Arms Up",
	ArmsDown: "Arms Down",
	Point:    "Point",
}

func (g Gesture) String() string {
	if name, ok := gestureNames[g]; ok {
		return name
	}
	return "Unknown"
}

// Keyword tables for Detect. Greetings and celebrations match anywhere
// in the text, question words only at the start.
var (
	greetingWords = []string{
		"hello", "hi", "hey", "greet", "wave", "say hello", "say hi",
	}
	celebrationWords = []string{
		"yay", "awesome", "great", "celebrate", "congratulations",
		"congrats", "hooray", "excellent", "amazing", "fantastic",
	}
	questionPrefixes = []string{
		"what", "why", "how", "when", "where", "who", "explain", "tell me",
	}
)

// Detect picks the gesture that fits a line of user input. Greetings win
// over celebrations, celebrations over questions. Returns None when
// nothing matches.
func Detect(text string) Gesture {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return None
	}
	for _, word := range greetingWords {
		if strings.Contains(lower, word) {
			return Wave
		}
	}
	for _, word := range celebrationWords {
		if strings.Contains(lower, word) {
			return ArmsUp
		}
	}
	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return Point
		}
	}
	if strings.Contains(lower, "?") {
		return Point
	}
	return None
}
