// Package ash wires the robot together: face display, arm servos,
// speech in and out, the Gemini brain and the optional web preview,
// all driven by one serial interaction loop.
package ash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lakshya-inakhiya/go-ash/internal/config"
	"github.com/lakshya-inakhiya/go-ash/pkg/brain"
	"github.com/lakshya-inakhiya/go-ash/pkg/display"
	"github.com/lakshya-inakhiya/go-ash/pkg/faces"
	"github.com/lakshya-inakhiya/go-ash/pkg/gesture"
	"github.com/lakshya-inakhiya/go-ash/pkg/speech"
	"github.com/lakshya-inakhiya/go-ash/pkg/web"
)

// App is the assembled robot. Build it with New, bring the components
// up with Init, then call Run; the zero value is not usable.
type App struct {
	settings config.Settings
	logger   *slog.Logger

	// Console I/O. The interaction loop owns stdout; logs go to stderr.
	out   io.Writer
	in    io.Reader
	lines *lineReader

	// Components. Any of these can be injected through options; Init
	// builds the rest from settings.
	display display.Backend
	faces   *faces.Cache
	servos  *gesture.Controller
	brain   brain.Provider
	speaker speech.Speaker
	mic     speech.Recognizer

	transcript *brain.Transcript
	web        *web.Server

	forceText bool
	useVoice  bool
}

// Option adjusts the App before Init runs.
type Option func(*App)

// WithOutput redirects console output, stdout unless set.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithInput replaces stdin as the text input source.
func WithInput(r io.Reader) Option {
	return func(a *App) { a.in = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithDisplay injects a ready display backend.
func WithDisplay(b display.Backend) Option {
	return func(a *App) { a.display = b }
}

// WithFaces injects a preloaded expression cache.
func WithFaces(c *faces.Cache) Option {
	return func(a *App) { a.faces = c }
}

// WithServos injects a servo controller.
func WithServos(c *gesture.Controller) Option {
	return func(a *App) { a.servos = c }
}

// WithProvider injects the conversation brain.
func WithProvider(p brain.Provider) Option {
	return func(a *App) { a.brain = p }
}

// WithSpeaker injects the speech synthesizer.
func WithSpeaker(s speech.Speaker) Option {
	return func(a *App) { a.speaker = s }
}

// WithRecognizer injects the speech recognizer.
func WithRecognizer(r speech.Recognizer) Option {
	return func(a *App) { a.mic = r }
}

// WithTextOnly forces text input even when a microphone is available.
func WithTextOnly() Option {
	return func(a *App) { a.forceText = true }
}

// New validates the settings and stages the app. No hardware is touched
// until Init.
func New(settings config.Settings, opts ...Option) (*App, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		settings: settings,
		out:      os.Stdout,
		in:       os.Stdin,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.lines = newLineReader(a.in)
	return a, nil
}

// Init brings up every component in the order the console reports them.
// Missing hardware degrades where it can: the display falls back through
// the backend chain, servos to simulation, voice input to text. Only a
// missing Gemini key is fatal.
func (a *App) Init(ctx context.Context) error {
	banner(a.out, "    Initializing Ash Robot")

	fmt.Fprintln(a.out, "\n[1/5] Loading configuration...")
	fmt.Fprintf(a.out, "      Display %s, servos %s, web preview %s\n",
		a.settings.Display.Backend,
		onOff(a.settings.Servos.Enabled),
		onOff(a.settings.Web.Enabled),
	)

	fmt.Fprintln(a.out, "\n[2/5] Initializing face display...")
	if err := a.initDisplay(); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	fmt.Fprintln(a.out, "\n[3/5] Initializing servo controller...")
	if err := a.initServos(); err != nil {
		return fmt.Errorf("servos: %w", err)
	}

	fmt.Fprintln(a.out, "\n[4/5] Initializing audio I/O...")
	if err := a.initAudio(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}

	fmt.Fprintln(a.out, "\n[5/5] Initializing Gemini AI...")
	if err := a.initBrain(ctx); err != nil {
		return err
	}

	a.initWeb()

	fmt.Fprintln(a.out)
	banner(a.out, "    Ash Robot Ready!")
	return nil
}

func (a *App) initDisplay() error {
	if a.display == nil {
		b, err := display.New(a.settings.Display.Config, a.logger)
		if err != nil {
			return err
		}
		a.display = b
	}
	fmt.Fprintf(a.out, "      Backend: %s\n", a.display)

	if a.faces == nil {
		cache, err := faces.Load(a.settings.Display.FacesDir)
		if err != nil {
			a.logger.Warn("face art unavailable, drawing stock faces",
				"dir", a.settings.Display.FacesDir, "error", err)
			fmt.Fprintf(a.out, "      No face art in %s, drawing stock faces\n",
				a.settings.Display.FacesDir)
			if cache, err = faces.Generated(); err != nil {
				return err
			}
		}
		a.faces = cache
	}
	fmt.Fprintf(a.out, "      Expressions loaded: %d\n", a.faces.Len())
	return nil
}

func (a *App) initServos() error {
	if a.servos == nil {
		s := a.settings.Servos
		opts := []gesture.Option{
			gesture.WithI2CBus(s.I2CBus),
			gesture.WithI2CAddress(uint16(s.I2CAddress)),
			gesture.WithPWMFrequency(s.PWMFrequency),
			gesture.WithChannels(s.Channels.LeftArm, s.Channels.RightArm),
			gesture.WithPulseRange(s.PulseRange.Min, s.PulseRange.Max),
			gesture.WithAngles(gesture.Angles{
				Neutral:   float64(s.Angles.Neutral),
				ArmsUp:    float64(s.Angles.ArmsUp),
				ArmsDown:  float64(s.Angles.ArmsDown),
				WaveStart: float64(s.Angles.WaveStart),
				WaveEnd:   float64(s.Angles.WaveEnd),
				PointUp:   float64(s.Angles.PointUp),
			}),
			gesture.WithTransitionSpeed(s.TransitionSpeed),
			gesture.WithLogger(a.logger),
		}
		if !s.Enabled {
			opts = append(opts, gesture.WithSimulation())
		}
		c, err := gesture.New(opts...)
		if err != nil {
			return err
		}
		a.servos = c
	}

	if a.servos.Simulated() {
		fmt.Fprintln(a.out, "      No servo board, gestures run in simulation")
	} else {
		fmt.Fprintf(a.out, "      PCA9685 ready on channels %d and %d\n",
			a.settings.Servos.Channels.LeftArm, a.settings.Servos.Channels.RightArm)
	}
	return nil
}

func (a *App) initAudio() error {
	audio := a.settings.Audio

	if a.speaker == nil {
		spk, err := speech.NewGoogleSynthesizer(
			speech.WithLanguage(audio.Language),
			speech.WithSlow(audio.TTSSlow),
			speech.WithLogger(a.logger),
		)
		if err != nil {
			a.logger.Warn("speech synthesis unavailable", "error", err)
			fmt.Fprintf(a.out, "      Speech output unavailable: %v\n", err)
		} else {
			a.speaker = spk
		}
	}
	if a.speaker != nil {
		fmt.Fprintln(a.out, "      Speech output ready")
	}

	wantVoice := audio.Input != "text" && !a.forceText
	if a.mic == nil && wantVoice {
		a.mic = a.probeMicrophone(audio)
	}
	if audio.Input == "voice" && a.mic == nil && !a.forceText {
		return fmt.Errorf("voice input requested but no microphone is usable")
	}

	if a.mic != nil {
		fmt.Fprintln(a.out, "      Microphone ready")
	} else {
		fmt.Fprintln(a.out, "      No microphone, text input only")
	}
	return nil
}

// probeMicrophone builds the recognizer when both an API key and a
// capture device are present. Returns nil otherwise; the loop then runs
// on text input.
func (a *App) probeMicrophone(audio config.AudioSettings) speech.Recognizer {
	key := config.GoogleSpeechKey()
	if key == "" {
		fmt.Fprintf(a.out, "      %s not set, voice input disabled\n", config.EnvGoogleSpeechKey)
		return nil
	}

	rec := speech.NewALSARecorder(audio.Device, audio.SampleRate, a.logger)
	if !rec.Available() {
		fmt.Fprintln(a.out, "      No capture device found (arecord missing)")
		return nil
	}

	mic, err := speech.NewGoogleRecognizer(
		speech.WithAPIKey(key),
		speech.WithLanguage(audio.Language),
		speech.WithSampleRate(audio.SampleRate),
		speech.WithDevice(audio.Device),
		speech.WithPhraseTimeLimit(audio.PhraseTimeLimit),
		speech.WithTimeout(audio.Timeout),
		speech.WithRecorder(rec),
		speech.WithLogger(a.logger),
	)
	if err != nil {
		a.logger.Warn("speech recognition unavailable", "error", err)
		fmt.Fprintf(a.out, "      Speech recognition unavailable: %v\n", err)
		return nil
	}
	return mic
}

func (a *App) initBrain(ctx context.Context) error {
	if a.brain == nil {
		key, err := config.GeminiAPIKey()
		if err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
			fmt.Fprintln(a.out, "\nSet the key in your environment:")
			fmt.Fprintf(a.out, "  export %s=your_actual_api_key\n", config.EnvGeminiKey)
			return err
		}

		g, err := brain.NewGemini(
			brain.WithAPIKey(key),
			brain.WithModel(a.settings.LLM.Model),
			brain.WithSystemInstruction(a.settings.LLM.SystemInstruction),
			brain.WithMaxTokens(a.settings.LLM.MaxTokens),
			brain.WithLogger(a.logger),
		)
		if err != nil {
			return fmt.Errorf("gemini: %w", err)
		}
		a.brain = g
		fmt.Fprintf(a.out, "      Model: %s\n", a.settings.LLM.Model)

		if err := g.Health(ctx); err != nil {
			a.logger.Warn("gemini health check failed", "error", err)
			fmt.Fprintf(a.out, "      ⚠️  Gemini not reachable yet: %v\n", err)
		}
	}

	if a.transcript == nil && a.settings.LLM.HistoryFile != "" {
		tr, err := brain.OpenTranscript(a.settings.LLM.HistoryFile)
		if err != nil {
			a.logger.Warn("conversation history unavailable", "error", err)
		} else {
			a.transcript = tr
			fmt.Fprintf(a.out, "      History: %s (%d exchanges)\n", tr.Path(), tr.Len())
		}
	}
	return nil
}

func (a *App) initWeb() {
	if !a.settings.Web.Enabled || a.web != nil {
		return
	}

	a.web = web.NewServer(a.settings.Web.Addr, a.logger)
	if sim, ok := a.display.(*display.Simulated); ok {
		a.web.Attach(sim)
	}
	a.web.UpdateState(func(s *web.State) {
		s.Backend = string(a.display.Kind())
		s.Expression = string(faces.Neutral)
	})
	a.web.StartAsync()
	fmt.Fprintf(a.out, "      Web preview: %s\n", previewURL(a.settings.Web.Addr))
}

// Close releases every component. Call it after Run returns.
func (a *App) Close() error {
	var errs []error

	if a.servos != nil {
		if err := a.servos.Close(); err != nil {
			errs = append(errs, fmt.Errorf("servos: %w", err))
		}
	}
	if a.speaker != nil {
		if err := a.speaker.Close(); err != nil {
			errs = append(errs, fmt.Errorf("speaker: %w", err))
		}
	}
	if a.mic != nil {
		if err := a.mic.Close(); err != nil {
			errs = append(errs, fmt.Errorf("microphone: %w", err))
		}
	}
	if a.brain != nil {
		if err := a.brain.Close(); err != nil {
			errs = append(errs, fmt.Errorf("brain: %w", err))
		}
	}
	if a.display != nil {
		if err := a.display.Close(); err != nil {
			errs = append(errs, fmt.Errorf("display: %w", err))
		}
	}
	if a.web != nil {
		if err := a.web.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("web: %w", err))
		}
	}
	return errors.Join(errs...)
}

const bannerWidth = 50

func banner(w io.Writer, title string) {
	line := strings.Repeat("=", bannerWidth)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, line)
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func previewURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
