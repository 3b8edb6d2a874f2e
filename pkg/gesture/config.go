package gesture

import (
	"log/slog"
	"time"

	"periph.io/x/devices/v3/pca9685"
)

// Angles holds the named arm positions in degrees.
type Angles struct {
	Neutral   float64
	ArmsUp    float64
	ArmsDown  float64
	WaveStart float64
	WaveEnd   float64
	PointUp   float64
}

// Config holds servo wiring and motion tuning.
type Config struct {
	// I2CBus selects the bus by name. Empty means the first one found.
	I2CBus string

	// I2CAddress is the PCA9685 address, 0x40 unless rejumpered.
	I2CAddress uint16

	// PWMFrequency in Hz. Analog servos such as the MG995 want 50.
	PWMFrequency int

	LeftChannel  int
	RightChannel int

	// PulseMin and PulseMax are the pulse widths in microseconds that
	// map to 0 and 180 degrees.
	PulseMin int
	PulseMax int

	Angles Angles

	// TransitionSpeed is how long one smooth arm move takes.
	TransitionSpeed time.Duration

	// Driver overrides hardware probing, mostly for tests.
	Driver Driver

	// Simulation skips the hardware probe and only tracks positions.
	Simulation bool

	Logger *slog.Logger
}

// Option configures the Config.
type Option func(*Config)

// WithI2CBus selects the I2C bus by name.
func WithI2CBus(name string) Option {
	return func(c *Config) {
		c.I2CBus = name
	}
}

// WithI2CAddress sets the PCA9685 address.
func WithI2CAddress(addr uint16) Option {
	return func(c *Config) {
		c.I2CAddress = addr
	}
}

// WithPWMFrequency sets the PWM frequency in Hz.
func WithPWMFrequency(hz int) Option {
	return func(c *Config) {
		c.PWMFrequency = hz
	}
}

// WithChannels assigns the left and right arm channels.
func WithChannels(left, right int) Option {
	return func(c *Config) {
		c.LeftChannel = left
		c.RightChannel = right
	}
}

// WithPulseRange sets the servo pulse width range in microseconds.
func WithPulseRange(minUS, maxUS int) Option {
	return func(c *Config) {
		c.PulseMin = minUS
		c.PulseMax = maxUS
	}
}

// WithAngles replaces the named arm positions.
func WithAngles(a Angles) Option {
	return func(c *Config) {
		c.Angles = a
	}
}

// WithTransitionSpeed sets the duration of one smooth move.
func WithTransitionSpeed(d time.Duration) Option {
	return func(c *Config) {
		c.TransitionSpeed = d
	}
}

// WithDriver injects a servo driver instead of probing for hardware.
func WithDriver(d Driver) Option {
	return func(c *Config) {
		c.Driver = d
	}
}

// WithSimulation forces simulation mode without touching the I2C bus.
func WithSimulation() Option {
	return func(c *Config) {
		c.Simulation = true
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// DefaultConfig returns settings for two MG995 arms on the first I2C bus.
func DefaultConfig() Config {
	return Config{
		I2CAddress:   pca9685.I2CAddr,
		PWMFrequency: 50,
		LeftChannel:  0,
		RightChannel: 1,
		PulseMin:     500,
		PulseMax:     2500,
		Angles: Angles{
			Neutral:   90,
			ArmsUp:    45,
			ArmsDown:  135,
			WaveStart: 60,
			WaveEnd:   120,
			PointUp:   45,
		},
		TransitionSpeed: 300 * time.Millisecond,
		Logger:          slog.Default(),
	}
}

// Apply applies the given options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
