package gesture

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Gesture
	}{
		{"Greeting word", "hello there", Wave},
		{"Greeting phrase", "please say hi to everyone", Wave},
		{"Celebration", "that is awesome news", ArmsUp},
		{"Congrats", "congrats on the launch", ArmsUp},
		{"Question prefix", "what time is it", Point},
		{"Question mark only", "is it raining today?", Point},
		{"Tell me", "tell me a joke", Point},
		{"Greeting beats question", "hello, what time is it?", Wave},
		{"Celebration beats question", "why is that so amazing", ArmsUp},
		{"Plain statement", "turn down the volume", None},
		{"Empty", "   ", None},
		{"Case insensitive", "HELLO THERE", Wave},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.text); got != tt.expected {
				t.Errorf("Detect(%q) = %v, expected %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestGestureString(t *testing.T) {
	if Wave.String() != "Wave" {
		t.Errorf("Wave.String() = %q", Wave.String())
	}
	if ArmsUp.String() != "Arms Up" {
		t.Errorf("ArmsUp.String() = %q", ArmsUp.String())
	}
	if Gesture(99).String() != "Unknown" {
		t.Errorf("Gesture(99).String() = %q", Gesture(99).String())
	}
}
