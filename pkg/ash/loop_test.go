package ash

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lakshya-inakhiya/go-ash/pkg/brain"
	"github.com/lakshya-inakhiya/go-ash/pkg/faces"
	"github.com/lakshya-inakhiya/go-ash/pkg/gesture"
	"github.com/lakshya-inakhiya/go-ash/pkg/speech"
)

func containsMove(moves []gesture.MockMove, channel int, angle float64) bool {
	for _, m := range moves {
		if m.Channel == channel && m.Angle == angle {
			return true
		}
	}
	return false
}

func TestRunConversation(t *testing.T) {
	rig := newTestRig(t, "hello there\nquit\n")

	if err := rig.app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rig.mustContain(t,
		"Performing startup sequence...",
		"Starting Interaction Loop",
		"💡 Tips:",
		"[Text Input Mode]",
		"You: ",
		"User: hello there",
		"[Thinking...]",
		"Ash: Mock response",
		"[Gesture: Wave]",
		"[Cooldown: 0s]",
		"Ash: Goodbye! Have a great day!",
		"Performing shutdown sequence...",
		"Ash robot shut down successfully",
	)

	if got := rig.brain.CallCount("Ask"); got != 1 {
		t.Errorf("Ask calls = %d, want 1", got)
	}
	for _, call := range rig.brain.Calls() {
		if call.Method == "Ask" && call.Prompt != "hello there" {
			t.Errorf("Ask prompt = %q, want %q", call.Prompt, "hello there")
		}
	}

	want := []string{
		"Hello! I am Ash. I am ready to assist you.",
		"Mock response",
		"Goodbye! Have a great day!",
		"Goodbye!",
	}
	spoken := rig.speaker.Spoken()
	if len(spoken) != len(want) {
		t.Fatalf("spoken %d lines %q, want %d", len(spoken), spoken, len(want))
	}
	for i := range want {
		if spoken[i] != want[i] {
			t.Errorf("spoken[%d] = %q, want %q", i, spoken[i], want[i])
		}
	}

	// Shutdown parks both arms at neutral.
	for channel := 0; channel <= 1; channel++ {
		angle, ok := rig.driver.Final(channel)
		if !ok || angle != 90 {
			t.Errorf("channel %d parked at %v (moved %v), want 90", channel, angle, ok)
		}
	}
}

func TestRunVoiceConversation(t *testing.T) {
	mic := &speech.MockRecognizer{Transcripts: []string{"hello robot", "quit"}}
	rig := newTestRig(t, "", WithRecognizer(mic))

	if err := rig.app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rig.mustContain(t,
		"[Listening...] (say 'text' to switch to text input)",
		"User: hello robot",
		"Ash: Mock response",
	)
	if got := rig.brain.CallCount("Ask"); got != 1 {
		t.Errorf("Ask calls = %d, want 1", got)
	}
	for _, call := range rig.brain.Calls() {
		if call.Method == "Ask" && call.Prompt != "hello robot" {
			t.Errorf("Ask prompt = %q, want %q", call.Prompt, "hello robot")
		}
	}
}

func TestVoiceMissDegradesToEmptyInput(t *testing.T) {
	var listens int
	mic := &speech.MockRecognizer{
		ListenFunc: func(ctx context.Context) (string, error) {
			listens++
			if listens == 1 {
				return "", speech.ErrNoSpeech
			}
			return "quit", nil
		},
	}
	rig := newTestRig(t, "", WithRecognizer(mic))

	if err := rig.app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rig.mustContain(t, "(Could not understand audio)")
	if got := rig.brain.CallCount("Ask"); got != 0 {
		t.Errorf("Ask calls = %d, want 0", got)
	}
}

func TestSwitchVoiceToText(t *testing.T) {
	mic := &speech.MockRecognizer{Transcripts: []string{"text"}}
	rig := newTestRig(t, "quit\n", WithRecognizer(mic))

	if err := rig.app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rig.mustContain(t,
		"✓ Switched to TEXT INPUT mode",
		"[Text Input Mode]",
	)
}

func TestSwitchTextToVoiceWithoutMic(t *testing.T) {
	rig := newTestRig(t, "voice\nquit\n")

	if err := rig.app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rig.mustContain(t, "✗ Microphone not available, staying in text mode")
}

func TestSwitchTextToVoiceWithMic(t *testing.T) {
	mic := &speech.MockRecognizer{Transcripts: []string{"quit"}}
	rig := newTestRig(t, "voice\n", WithRecognizer(mic), WithTextOnly())

	if err := rig.app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rig.mustContain(t,
		"[Text Input Mode]",
		"✓ Switched to VOICE INPUT mode",
		"[Listening...] (say 'text' to switch to text input)",
	)
}

func TestRunDemo(t *testing.T) {
	rig := newTestRig(t, "demo\nquit\n")

	if err := rig.app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rig.mustContain(t,
		"Gesture Demo - Watch the servo positions!",
		"→ Neutral",
		"→ Arms Up",
		"→ Arms Down",
		"→ Point",
		"→ Wave",
		"Gesture demo complete!",
	)
	if got := rig.brain.CallCount("Ask"); got != 0 {
		t.Errorf("Ask calls = %d, want 0", got)
	}
}

func TestQuitWords(t *testing.T) {
	for _, word := range []string{"quit", "exit", "bye", "goodbye", "stop"} {
		t.Run(word, func(t *testing.T) {
			rig := newTestRig(t, word+"\n")

			if err := rig.app.Run(context.Background()); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			rig.mustContain(t, "Ash: Goodbye! Have a great day!")
			if got := rig.brain.CallCount("Ask"); got != 0 {
				t.Errorf("Ask calls = %d, want 0", got)
			}
		})
	}
}

func TestCelebrationKeepsArmsUp(t *testing.T) {
	rig := newTestRig(t, "that is awesome\nquit\n")

	if err := rig.app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rig.mustContain(t, "[Gesture: Arms Up]")
	moves := rig.driver.Moves()
	if !containsMove(moves, 0, 45) || !containsMove(moves, 1, 45) {
		t.Error("expected both arms raised to 45")
	}
}

func TestAskFailureStillSpeaksApology(t *testing.T) {
	failing := brain.WithError(errors.New("model offline"))
	rig := newTestRig(t, "lorem ipsum\nquit\n", WithProvider(failing))

	if err := rig.app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rig.mustContain(t, "Ash: "+brain.ReplyTroubleThinking)
	if strings.Contains(rig.out.String(), "Error in interaction loop") {
		t.Error("a failed model call must not trip the loop recovery")
	}

	var apologized bool
	for _, line := range rig.speaker.Spoken() {
		if line == brain.ReplyTroubleThinking {
			apologized = true
		}
	}
	if !apologized {
		t.Errorf("apology not spoken, got %q", rig.speaker.Spoken())
	}
}

func TestExchangeServoFailureRecovers(t *testing.T) {
	rig := newTestRig(t, "")
	rig.driver.Err = errors.New("i2c write failed")

	ctx := context.Background()
	err := rig.app.exchange(ctx)
	if err == nil {
		t.Fatal("Expected exchange to fail with a stuck servo")
	}
	rig.app.recoverExchange(ctx, err)

	rig.mustContain(t, "Error in interaction loop: ")
	var apologized bool
	for _, line := range rig.speaker.Spoken() {
		if line == "Sorry, I encountered an error." {
			apologized = true
		}
	}
	if !apologized {
		t.Errorf("apology not spoken, got %q", rig.speaker.Spoken())
	}

	frame := rig.display.LastFrame()
	if frame == nil {
		t.Fatal("no frame presented")
	}
	if want := rig.cache.Get(faces.Error); frame != want {
		t.Error("recovery should present the error face")
	}
}

func TestRunStartupFailure(t *testing.T) {
	rig := newTestRig(t, "hello\n")
	rig.driver.Err = errors.New("bus stuck")

	err := rig.app.Run(context.Background())
	if err == nil {
		t.Fatal("Expected Run to fail when startup cannot move the arms")
	}
	if !strings.Contains(err.Error(), "startup") {
		t.Errorf("error = %v, want startup context", err)
	}
	// The shutdown sequence still runs; the servo reset inside it only warns.
	rig.mustContain(t,
		"Performing shutdown sequence...",
		"Ash robot shut down successfully",
	)
}

func TestEOFExits(t *testing.T) {
	rig := newTestRig(t, "")

	if err := rig.app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rig.mustContain(t, "Exiting...")
	if got := rig.brain.CallCount("Ask"); got != 0 {
		t.Errorf("Ask calls = %d, want 0", got)
	}
}

func TestCancelledContextExits(t *testing.T) {
	rig := newTestRig(t, "hello\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rig.app.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	rig.mustContain(t, "Ash robot shut down successfully")
	if got := rig.brain.CallCount("Ask"); got != 0 {
		t.Errorf("Ask calls = %d, want 0", got)
	}
}
