package display

import "fmt"

// Config holds the panel configuration.
type Config struct {
	// Backend pins a specific implementation. Default: "auto".
	Backend Kind `yaml:"backend" json:"backend"`

	// Declared panel geometry. The face art is authored for 480x320 and
	// every frame is validated against these values.
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`

	// FramebufferPath is the fbdev node used by the framebuffer backend.
	// SPI panel overlays usually land on /dev/fb1, with /dev/fb0 being
	// HDMI.
	FramebufferPath string `yaml:"framebuffer_path" json:"framebuffer_path"`

	// SPI configures the hardware backend.
	SPI SPIConfig `yaml:"spi" json:"spi"`
}

// SPIConfig describes how the ILI9486 module is wired.
type SPIConfig struct {
	// Bus and Device select the spidev port, e.g. 0.0 for /dev/spidev0.0.
	Bus    int `yaml:"bus" json:"bus"`
	Device int `yaml:"device" json:"device"`

	// GPIO line numbers (BCM numbering). The boards in the wild disagree
	// on dc/rst wiring; these are configuration, not constants.
	DCPin        int `yaml:"dc_pin" json:"dc_pin"`
	ResetPin     int `yaml:"rst_pin" json:"rst_pin"`
	BacklightPin int `yaml:"bl_pin" json:"bl_pin"`

	// SpeedHz is the SPI clock.
	SpeedHz int `yaml:"speed_hz" json:"speed_hz"`

	// Rotation is the panel orientation in degrees: 0, 90, 180 or 270.
	// 90 turns the portrait-native panel into 480x320 landscape.
	Rotation int `yaml:"rotation" json:"rotation"`

	// BGR sets the controller's BGR subpixel order bit. Wrong value means
	// swapped red and blue.
	BGR bool `yaml:"bgr" json:"bgr"`
}

// DefaultConfig returns a Config matching the reference wiring: a 3.5"
// ILI9486 hat on SPI0.0 with dc=25, rst=27, bl=18, rotated to landscape.
func DefaultConfig() Config {
	return Config{
		Backend:         KindAuto,
		Width:           480,
		Height:          320,
		FramebufferPath: "/dev/fb1",
		SPI: SPIConfig{
			Bus:          0,
			Device:       0,
			DCPin:        25,
			ResetPin:     27,
			BacklightPin: 18,
			SpeedHz:      32_000_000,
			Rotation:     90,
			BGR:          true,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Backend {
	case KindAuto, KindSPI, KindFramebuffer, KindSimulated:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("geometry must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FramebufferPath == "" {
		return fmt.Errorf("framebuffer_path must not be empty")
	}
	if c.SPI.Bus < 0 || c.SPI.Device < 0 {
		return fmt.Errorf("spi bus/device must not be negative, got %d.%d", c.SPI.Bus, c.SPI.Device)
	}
	if c.SPI.DCPin < 0 || c.SPI.ResetPin < 0 || c.SPI.BacklightPin < 0 {
		return fmt.Errorf("gpio pins must not be negative")
	}
	if c.SPI.SpeedHz <= 0 {
		return fmt.Errorf("speed_hz must be positive, got %d", c.SPI.SpeedHz)
	}
	switch c.SPI.Rotation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("rotation must be 0, 90, 180 or 270, got %d", c.SPI.Rotation)
	}
	return nil
}

// FrameBytes returns the payload size of one RGB888 frame.
func (c *Config) FrameBytes() int {
	return c.Width * c.Height * 3
}
