package speech

import (
	"log/slog"
	"net/http"
	"time"
)

// Config holds settings shared by the recognizer and synthesizer.
type Config struct {
	// APIKey authenticates against the speech recognition endpoint.
	APIKey string

	// Language is the BCP-47 tag for recognition and synthesis.
	Language string

	// Slow asks the synthesizer for slower speech.
	Slow bool

	// SampleRate for recording, in Hz.
	SampleRate int

	// PhraseTimeLimit caps the length of one recorded utterance.
	PhraseTimeLimit time.Duration

	// Timeout for a single HTTP request.
	Timeout time.Duration

	// Endpoints, overridable for tests.
	RecognizerURL  string
	SynthesizerURL string

	// Device is the ALSA capture device, empty for the default.
	Device string

	// Recorder overrides the default arecord-based recorder.
	Recorder Recorder

	// Player overrides the default playback command.
	Player Player

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// Option is a functional option for configuring speech components.
type Option func(*Config)

// WithAPIKey sets the recognition API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithLanguage sets the language tag.
func WithLanguage(lang string) Option {
	return func(c *Config) { c.Language = lang }
}

// WithSlow toggles slow synthesis.
func WithSlow(slow bool) Option {
	return func(c *Config) { c.Slow = slow }
}

// WithSampleRate sets the recording sample rate.
func WithSampleRate(hz int) Option {
	return func(c *Config) { c.SampleRate = hz }
}

// WithPhraseTimeLimit caps utterance length.
func WithPhraseTimeLimit(d time.Duration) Option {
	return func(c *Config) { c.PhraseTimeLimit = d }
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithRecognizerURL overrides the recognition endpoint.
func WithRecognizerURL(url string) Option {
	return func(c *Config) { c.RecognizerURL = url }
}

// WithSynthesizerURL overrides the synthesis endpoint.
func WithSynthesizerURL(url string) Option {
	return func(c *Config) { c.SynthesizerURL = url }
}

// WithDevice sets the ALSA capture device.
func WithDevice(dev string) Option {
	return func(c *Config) { c.Device = dev }
}

// WithRecorder injects a recorder, mainly for tests.
func WithRecorder(r Recorder) Option {
	return func(c *Config) { c.Recorder = r }
}

// WithPlayer injects a player, mainly for tests.
func WithPlayer(p Player) Option {
	return func(c *Config) { c.Player = p }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Config) { c.HTTPClient = hc }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns the stock recognition and synthesis settings.
func DefaultConfig() *Config {
	return &Config{
		Language:        "en",
		SampleRate:      16000,
		PhraseTimeLimit: 10 * time.Second,
		Timeout:         15 * time.Second,
		RecognizerURL:   "http://www.google.com/speech-api/v2/recognize",
		SynthesizerURL:  "https://translate.google.com/translate_tts",
		Logger:          slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
