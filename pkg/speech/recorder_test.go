package speech

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestArecordArgs(t *testing.T) {
	tests := []struct {
		name       string
		duration   time.Duration
		sampleRate int
		device     string
		expected   []string
	}{
		{
			name:       "Default capture",
			duration:   5 * time.Second,
			sampleRate: 16000,
			expected:   []string{"-q", "-t", "wav", "-f", "S16_LE", "-r", "16000", "-c", "1", "-d", "5"},
		},
		{
			name:       "Sub-second duration rounds up",
			duration:   200 * time.Millisecond,
			sampleRate: 16000,
			expected:   []string{"-q", "-t", "wav", "-f", "S16_LE", "-r", "16000", "-c", "1", "-d", "1"},
		},
		{
			name:       "Explicit device",
			duration:   3 * time.Second,
			sampleRate: 44100,
			device:     "plughw:1,0",
			expected:   []string{"-q", "-t", "wav", "-f", "S16_LE", "-r", "44100", "-c", "1", "-d", "3", "-D", "plughw:1,0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := arecordArgs(tt.duration, tt.sampleRate, tt.device)
			if !reflect.DeepEqual(args, tt.expected) {
				t.Errorf("arecordArgs() = %v, expected %v", args, tt.expected)
			}
		})
	}
}

func TestMockRecorderSequence(t *testing.T) {
	rec := &MockRecorder{Payloads: [][]byte{[]byte("one"), []byte("two")}}

	ctx := context.Background()

	first, err := rec.Record(ctx, time.Second)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if string(first) != "one" {
		t.Errorf("First payload = %q", first)
	}

	second, _ := rec.Record(ctx, time.Second)
	if string(second) != "two" {
		t.Errorf("Second payload = %q", second)
	}

	if _, err := rec.Record(ctx, time.Second); err == nil {
		t.Error("Exhausted recorder should fail")
	}
	if rec.Calls() != 3 {
		t.Errorf("Calls = %d, expected 3", rec.Calls())
	}
}
