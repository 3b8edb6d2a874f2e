package ash

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"
	"time"

	"github.com/lakshya-inakhiya/go-ash/pkg/faces"
	"github.com/lakshya-inakhiya/go-ash/pkg/gesture"
	"github.com/lakshya-inakhiya/go-ash/pkg/speech"
	"github.com/lakshya-inakhiya/go-ash/pkg/web"
)

// errQuit ends the interaction loop after a quit command.
var errQuit = errors.New("quit requested")

// Pause lengths for the scripted sequences. Vars so tests can shrink them.
var (
	startupPause = time.Second
	demoPause    = 1500 * time.Millisecond
	errorPause   = 2 * time.Second
	goodbyePause = time.Second
)

// Console commands. Matched against the whole lowercased input.
var (
	quitWords = map[string]bool{
		"quit": true, "exit": true, "bye": true, "goodbye": true, "stop": true,
	}
	demoWords = map[string]bool{
		"gestures": true, "demo": true, "show gestures": true,
		"test gestures": true, "demo gestures": true,
	}
)

// Run performs the startup sequence and drives the interaction loop
// until the user quits, input ends or the context is cancelled. The
// shutdown sequence always runs on the way out.
func (a *App) Run(ctx context.Context) error {
	defer a.shutdownSequence()

	if err := a.startupSequence(ctx); err != nil {
		if isCancelled(err) {
			return nil
		}
		return fmt.Errorf("startup: %w", err)
	}
	return a.interactionLoop(ctx)
}

// startupSequence greets the user with a wave and a spoken hello.
func (a *App) startupSequence(ctx context.Context) error {
	fmt.Fprintln(a.out, "\nPerforming startup sequence...")

	if err := a.setExpression(a.startupExpression()); err != nil {
		return err
	}
	if err := a.servos.Neutral(ctx); err != nil {
		return err
	}
	a.syncArms()
	if err := wait(ctx, startupPause); err != nil {
		return err
	}

	if err := a.setExpression(faces.Happy); err != nil {
		return err
	}
	if err := a.servos.Wave(ctx, 2); err != nil {
		return err
	}
	a.syncArms()
	a.speak(ctx, "Hello! I am Ash. I am ready to assist you.")

	return wait(ctx, startupPause)
}

func (a *App) interactionLoop(ctx context.Context) error {
	fmt.Fprintln(a.out)
	banner(a.out, "    Starting Interaction Loop")
	fmt.Fprintln(a.out, "\n💡 Tips:")
	fmt.Fprintln(a.out, "  • Speak or type your questions")
	fmt.Fprintln(a.out, "  • Type 'quit', 'exit', or 'bye' to exit")
	fmt.Fprintln(a.out, "  • Type 'gestures' or 'demo' to see all gestures")
	fmt.Fprintln(a.out, "  • Type 'text' to switch to text-only mode")
	fmt.Fprintln(a.out, "  • Type 'voice' to switch back to voice mode")
	fmt.Fprintln(a.out, "  • Press Ctrl+C to exit")
	fmt.Fprintln(a.out, strings.Repeat("=", bannerWidth))

	a.useVoice = !a.forceText && a.mic != nil

	for {
		if ctx.Err() != nil {
			return nil
		}

		err := a.exchange(ctx)
		switch {
		case err == nil:
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			return nil
		case isCancelled(err):
			return nil
		default:
			a.recoverExchange(ctx, err)
		}
	}
}

// exchange runs one turn: listen, think, answer, settle.
func (a *App) exchange(ctx context.Context) error {
	if err := a.setExpression(faces.Listening); err != nil {
		return err
	}
	if err := a.servos.Neutral(ctx); err != nil {
		return err
	}
	a.syncArms()
	a.setListening(true)

	input, err := a.readInput(ctx)
	a.setListening(false)
	if err != nil {
		return err
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	lower := strings.ToLower(input)
	switch lower {
	case "text":
		a.useVoice = false
		fmt.Fprintln(a.out, "✓ Switched to TEXT INPUT mode")
		return nil
	case "voice":
		if a.mic != nil {
			a.useVoice = true
			fmt.Fprintln(a.out, "✓ Switched to VOICE INPUT mode")
		} else {
			fmt.Fprintln(a.out, "✗ Microphone not available, staying in text mode")
		}
		return nil
	}

	if quitWords[lower] {
		fmt.Fprintf(a.out, "\nUser: %s\n", input)
		fmt.Fprintln(a.out, "Ash: Goodbye! Have a great day!")
		if err := a.setExpression(faces.Happy); err != nil {
			a.logger.Warn("goodbye face unavailable", "error", err)
		}
		a.speak(ctx, "Goodbye! Have a great day!")
		return errQuit
	}

	if demoWords[lower] {
		fmt.Fprintf(a.out, "\nUser: %s\n", input)
		fmt.Fprintln(a.out)
		banner(a.out, "    Gesture Demo - Watch the servo positions!")
		return a.demoGestures(ctx)
	}

	fmt.Fprintf(a.out, "User: %s\n", input)
	detected := gesture.Detect(input)

	// Think. The robot points while it waits for the model.
	if err := a.setExpression(faces.Thinking); err != nil {
		return err
	}
	if err := a.servos.Point(ctx); err != nil {
		return err
	}
	a.syncArms()

	fmt.Fprintln(a.out, "[Thinking...]")
	response, err := a.brain.Ask(ctx, input)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Ask still returned a speakable apology; keep going with it.
		a.logger.Warn("model call failed", "error", err)
	}
	fmt.Fprintf(a.out, "Ash: %s\n", response)
	a.record(input, response)

	// Answer, replaying the detected gesture alongside the speech.
	if err := a.setExpression(faces.Speaking); err != nil {
		return err
	}
	if detected != gesture.None {
		fmt.Fprintf(a.out, "[Gesture: %s]\n", detected)
		if err := a.servos.Perform(ctx, detected); err != nil {
			return err
		}
		a.syncArms()
	}
	a.speak(ctx, response)

	// Settle on a happy face. Waves and celebrations keep their pose,
	// everything else gets the default arms up.
	if err := a.setExpression(faces.Happy); err != nil {
		return err
	}
	if detected != gesture.Wave && detected != gesture.ArmsUp {
		if err := a.servos.ArmsUp(ctx); err != nil {
			return err
		}
		a.syncArms()
	}

	fmt.Fprintf(a.out, "[Cooldown: %s]\n", a.settings.Main.CooldownPeriod)
	return wait(ctx, a.settings.Main.CooldownPeriod)
}

// readInput gets one utterance, spoken or typed depending on the mode.
// Recognition misses degrade to empty input rather than errors.
func (a *App) readInput(ctx context.Context) (string, error) {
	if a.useVoice {
		fmt.Fprintln(a.out, "\n[Listening...] (say 'text' to switch to text input)")
		text, err := a.mic.Listen(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if errors.Is(err, speech.ErrNoSpeech) {
				fmt.Fprintln(a.out, "(Could not understand audio)")
			} else {
				a.logger.Warn("voice input failed", "error", err)
			}
			return "", nil
		}
		return text, nil
	}

	fmt.Fprintln(a.out, "\n[Text Input Mode]")
	fmt.Fprintln(a.out, strings.Repeat("=", bannerWidth))
	fmt.Fprint(a.out, "You: ")
	line, err := a.lines.ReadLine(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out, "\n\nExiting...")
		}
		return "", err
	}
	return line, nil
}

// demoGestures walks through every gesture with a matching face.
func (a *App) demoGestures(ctx context.Context) error {
	demo := []struct {
		gesture gesture.Gesture
		face    faces.Expression
	}{
		{gesture.Neutral, faces.Neutral},
		{gesture.ArmsUp, faces.Happy},
		{gesture.ArmsDown, faces.Neutral},
		{gesture.Point, faces.Thinking},
		{gesture.Wave, faces.Happy},
	}

	for _, step := range demo {
		fmt.Fprintf(a.out, "\n→ %s\n", step.gesture)
		if err := a.setExpression(step.face); err != nil {
			return err
		}
		if err := a.servos.Perform(ctx, step.gesture); err != nil {
			return err
		}
		a.syncArms()
		if err := wait(ctx, demoPause); err != nil {
			return err
		}
	}

	if err := a.setExpression(faces.Happy); err != nil {
		return err
	}
	if err := a.servos.Neutral(ctx); err != nil {
		return err
	}
	a.syncArms()

	fmt.Fprintln(a.out)
	banner(a.out, "Gesture demo complete!")
	return nil
}

// recoverExchange keeps the loop alive after a failed turn.
func (a *App) recoverExchange(ctx context.Context, cause error) {
	fmt.Fprintf(a.out, "\nError in interaction loop: %v\n", cause)
	a.logger.Error("interaction loop error", "error", cause)

	if err := a.setExpression(faces.Error); err != nil {
		a.logger.Warn("error face unavailable", "error", err)
	}
	a.speak(ctx, "Sorry, I encountered an error.")
	_ = wait(ctx, errorPause)
}

// shutdownSequence says goodbye and parks the hardware. It runs on its
// own deadline so a cancelled run context cannot cut it short.
func (a *App) shutdownSequence() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	fmt.Fprintln(a.out, "\nPerforming shutdown sequence...")

	if err := a.setExpression(faces.Neutral); err != nil {
		a.logger.Warn("shutdown expression failed", "error", err)
	}
	a.speak(ctx, "Goodbye!")
	_ = wait(ctx, goodbyePause)

	if err := a.servos.Reset(ctx); err != nil {
		a.logger.Warn("servo reset failed", "error", err)
	}
	if err := a.display.Clear(color.RGBA{A: 0xFF}); err != nil {
		a.logger.Warn("display clear failed", "error", err)
	}

	fmt.Fprintln(a.out, "\nAsh robot shut down successfully")
}

// setExpression presents a face and mirrors it to the web preview.
func (a *App) setExpression(e faces.Expression) error {
	if err := a.display.Present(a.faces.Get(e)); err != nil {
		return fmt.Errorf("present %s: %w", e, err)
	}
	if a.web != nil {
		a.web.UpdateState(func(s *web.State) { s.Expression = string(e) })
	}
	return nil
}

// speak voices a line. Synthesis failures are logged, never fatal: the
// text is already on the console.
func (a *App) speak(ctx context.Context, text string) {
	if a.web != nil {
		a.web.UpdateState(func(s *web.State) { s.Speaking = true })
		defer a.web.UpdateState(func(s *web.State) { s.Speaking = false })
	}
	if a.speaker == nil {
		return
	}
	if err := a.speaker.Say(ctx, text); err != nil && ctx.Err() == nil {
		a.logger.Warn("speech synthesis failed", "error", err)
	}
}

func (a *App) setListening(on bool) {
	if a.web == nil {
		return
	}
	mode := "text"
	if a.useVoice {
		mode = "voice"
	}
	a.web.UpdateState(func(s *web.State) {
		s.Listening = on
		s.InputMode = mode
	})
}

// syncArms mirrors the servo positions to the web preview.
func (a *App) syncArms() {
	if a.web == nil {
		return
	}
	left, right := a.servos.Positions()
	sim := a.servos.Simulated()
	a.web.UpdateState(func(s *web.State) {
		s.LeftArm = left
		s.RightArm = right
		s.SimServos = sim
	})
}

// record stores one exchange in the transcript and the web preview.
func (a *App) record(prompt, reply string) {
	if a.web != nil {
		a.web.UpdateState(func(s *web.State) {
			s.LastHeard = prompt
			s.LastReply = reply
		})
		a.web.AddExchange("user", prompt)
		a.web.AddExchange("ash", reply)
	}
	if a.transcript != nil {
		if _, err := a.transcript.Append(prompt, reply); err != nil {
			a.logger.Warn("transcript append failed", "error", err)
		}
	}
}

func (a *App) startupExpression() faces.Expression {
	e, err := faces.Parse(a.settings.Main.StartupExpression)
	if err != nil {
		return faces.Neutral
	}
	return e
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
