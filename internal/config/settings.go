// Package config loads go-ash settings from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lakshya-inakhiya/go-ash/pkg/display"
)

// DefaultPath is where Load looks when no explicit path is given.
const DefaultPath = "config/settings.yaml"

// Settings is the full configuration tree, mirroring config/settings.yaml.
type Settings struct {
	Display DisplaySettings `yaml:"display" json:"display"`
	Audio   AudioSettings   `yaml:"audio" json:"audio"`
	LLM     LLMSettings     `yaml:"llm" json:"llm"`
	Servos  ServoSettings   `yaml:"servos" json:"servos"`
	Web     WebSettings     `yaml:"web" json:"web"`
	Main    MainSettings    `yaml:"main" json:"main"`
}

// DisplaySettings extends the panel configuration with the location of
// the face art.
type DisplaySettings struct {
	display.Config `yaml:",inline" json:"config"`

	// FacesDir holds the seven expression PNGs. Relative paths resolve
	// against the working directory.
	FacesDir string `yaml:"faces_directory" json:"faces_directory"`
}

// AudioSettings configures speech input and output.
type AudioSettings struct {
	// Input selects the input mode: "auto" uses the microphone when one
	// is present, "voice" requires one, "text" reads stdin only.
	Input string `yaml:"input" json:"input"`

	// Timeout is how long to wait for speech to start before giving up.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// PhraseTimeLimit caps the length of a single recorded utterance.
	PhraseTimeLimit time.Duration `yaml:"phrase_time_limit" json:"phrase_time_limit"`

	// Language is the BCP-47 tag used for both recognition and synthesis.
	Language string `yaml:"language" json:"language"`

	// TTSSlow asks the synthesizer for slower speech.
	TTSSlow bool `yaml:"tts_slow" json:"tts_slow"`

	// SampleRate for recording. 16 kHz is the sweet spot for speech.
	SampleRate int `yaml:"sample_rate" json:"sample_rate"`

	// Device is the ALSA capture device, empty for the default.
	Device string `yaml:"device" json:"device"`
}

// LLMSettings configures the conversation brain.
type LLMSettings struct {
	Model             string `yaml:"model" json:"model"`
	SystemInstruction string `yaml:"system_instruction" json:"system_instruction"`
	MaxTokens         int    `yaml:"max_tokens" json:"max_tokens"`

	// HistoryFile persists the conversation across restarts when set.
	HistoryFile string `yaml:"history_file" json:"history_file"`
}

// ServoSettings configures the PCA9685 arm controller.
type ServoSettings struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// I2CBus is the periph bus name, empty for the first available.
	I2CBus       string `yaml:"i2c_bus" json:"i2c_bus"`
	I2CAddress   int    `yaml:"i2c_address" json:"i2c_address"`
	PWMFrequency int    `yaml:"pwm_frequency" json:"pwm_frequency"`

	Channels   ServoChannels `yaml:"channels" json:"channels"`
	PulseRange PulseRange    `yaml:"pulse_range" json:"pulse_range"`
	Angles     ServoAngles   `yaml:"angles" json:"angles"`

	// TransitionSpeed is the duration of one smooth move.
	TransitionSpeed time.Duration `yaml:"transition_speed" json:"transition_speed"`
}

// ServoChannels maps arms to PCA9685 output channels.
type ServoChannels struct {
	LeftArm  int `yaml:"left_arm" json:"left_arm"`
	RightArm int `yaml:"right_arm" json:"right_arm"`
}

// PulseRange is the servo pulse calibration in microseconds.
type PulseRange struct {
	Min    int `yaml:"min" json:"min"`
	Max    int `yaml:"max" json:"max"`
	Center int `yaml:"center" json:"center"`
}

// ServoAngles names the arm positions used by gestures, in degrees.
type ServoAngles struct {
	Neutral   int `yaml:"neutral" json:"neutral"`
	ArmsUp    int `yaml:"arms_up" json:"arms_up"`
	ArmsDown  int `yaml:"arms_down" json:"arms_down"`
	WaveStart int `yaml:"wave_start" json:"wave_start"`
	WaveEnd   int `yaml:"wave_end" json:"wave_end"`
	PointUp   int `yaml:"point_up" json:"point_up"`
}

// WebSettings configures the browser face preview.
type WebSettings struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// MainSettings holds interaction loop knobs.
type MainSettings struct {
	// CooldownPeriod is the pause after each exchange.
	CooldownPeriod time.Duration `yaml:"cooldown_period" json:"cooldown_period"`

	// StartupExpression is shown while the robot boots.
	StartupExpression string `yaml:"startup_expression" json:"startup_expression"`

	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Default returns settings for the stock build: a Pi with a 3.5" ILI9486
// hat, two MG995 arms on a PCA9685, and a USB microphone.
func Default() Settings {
	return Settings{
		Display: DisplaySettings{
			Config:   display.DefaultConfig(),
			FacesDir: "faces",
		},
		Audio: AudioSettings{
			Input:           "auto",
			Timeout:         5 * time.Second,
			PhraseTimeLimit: 10 * time.Second,
			Language:        "en",
			TTSSlow:         false,
			SampleRate:      16000,
		},
		LLM: LLMSettings{
			Model: "gemini-1.5-flash",
			SystemInstruction: "You are Ash, a friendly desktop robot assistant. " +
				"Give very concise answers in 1-2 sentences. " +
				"Be warm and helpful, and keep a light sense of humor.",
			MaxTokens: 100,
		},
		Servos: ServoSettings{
			Enabled:      true,
			I2CAddress:   0x40,
			PWMFrequency: 50,
			Channels:     ServoChannels{LeftArm: 0, RightArm: 1},
			PulseRange:   PulseRange{Min: 500, Max: 2500, Center: 1500},
			Angles: ServoAngles{
				Neutral:   90,
				ArmsUp:    45,
				ArmsDown:  135,
				WaveStart: 60,
				WaveEnd:   120,
				PointUp:   45,
			},
			TransitionSpeed: 300 * time.Millisecond,
		},
		Web: WebSettings{
			Enabled: false,
			Addr:    ":8090",
		},
		Main: MainSettings{
			CooldownPeriod:    2 * time.Second,
			StartupExpression: "neutral",
			LogLevel:          "info",
		},
	}
}

// Load reads settings from path. A missing file is not an error: the
// defaults are returned so the robot can boot from a bare checkout.
func Load(path string) (Settings, error) {
	if path == "" {
		path = DefaultPath
	}

	s := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks the whole tree.
func (s *Settings) Validate() error {
	if err := s.Display.Config.Validate(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	if s.Display.FacesDir == "" {
		return fmt.Errorf("display: faces_directory must not be empty")
	}

	switch s.Audio.Input {
	case "auto", "voice", "text":
	default:
		return fmt.Errorf("audio: input must be auto, voice or text, got %q", s.Audio.Input)
	}
	if s.Audio.Timeout <= 0 || s.Audio.PhraseTimeLimit <= 0 {
		return fmt.Errorf("audio: timeout and phrase_time_limit must be positive")
	}
	if s.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio: sample_rate must be positive, got %d", s.Audio.SampleRate)
	}
	if s.Audio.Language == "" {
		return fmt.Errorf("audio: language must not be empty")
	}

	if s.LLM.Model == "" {
		return fmt.Errorf("llm: model must not be empty")
	}
	if s.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm: max_tokens must be positive, got %d", s.LLM.MaxTokens)
	}

	if err := s.Servos.validate(); err != nil {
		return fmt.Errorf("servos: %w", err)
	}

	if s.Web.Enabled && s.Web.Addr == "" {
		return fmt.Errorf("web: addr must not be empty when enabled")
	}

	if s.Main.CooldownPeriod < 0 {
		return fmt.Errorf("main: cooldown_period must not be negative")
	}
	return nil
}

func (s *ServoSettings) validate() error {
	if !s.Enabled {
		return nil
	}
	if s.I2CAddress <= 0 || s.I2CAddress > 0x7f {
		return fmt.Errorf("i2c_address %#x out of 7-bit range", s.I2CAddress)
	}
	if s.PWMFrequency <= 0 {
		return fmt.Errorf("pwm_frequency must be positive, got %d", s.PWMFrequency)
	}
	if s.Channels.LeftArm < 0 || s.Channels.LeftArm > 15 ||
		s.Channels.RightArm < 0 || s.Channels.RightArm > 15 {
		return fmt.Errorf("channels must be 0-15")
	}
	if s.Channels.LeftArm == s.Channels.RightArm {
		return fmt.Errorf("left and right arm share channel %d", s.Channels.LeftArm)
	}
	if s.PulseRange.Min <= 0 || s.PulseRange.Max <= s.PulseRange.Min {
		return fmt.Errorf("pulse_range min/max invalid: %d..%d", s.PulseRange.Min, s.PulseRange.Max)
	}
	if s.TransitionSpeed <= 0 {
		return fmt.Errorf("transition_speed must be positive")
	}
	for _, a := range []int{
		s.Angles.Neutral, s.Angles.ArmsUp, s.Angles.ArmsDown,
		s.Angles.WaveStart, s.Angles.WaveEnd, s.Angles.PointUp,
	} {
		if a < 0 || a > 180 {
			return fmt.Errorf("angle %d out of 0-180 range", a)
		}
	}
	return nil
}
