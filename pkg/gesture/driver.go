package gesture

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/pca9685"
	"periph.io/x/host/v3"
)

// Driver sets one servo channel to an absolute angle in degrees.
// Implementations must accept angles in [0, 180].
type Driver interface {
	Move(channel int, angle float64) error
	Close() error
}

// pwmResolution is the PCA9685 counter range per PWM period.
const pwmResolution = 4096

// dutyFromMicros converts a pulse width in microseconds to the PCA9685
// 12-bit duty count at the given PWM frequency.
func dutyFromMicros(us, freqHz int) gpio.Duty {
	return gpio.Duty(int64(us) * pwmResolution * int64(freqHz) / 1_000_000)
}

// pcaDriver drives servos through a PCA9685 board.
type pcaDriver struct {
	bus   i2c.BusCloser
	group *pca9685.ServoGroup
}

func openPCA9685(cfg Config) (*pcaDriver, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.I2CBus, err)
	}
	dev, err := pca9685.NewI2C(bus, cfg.I2CAddress)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("pca9685 at 0x%02x: %w", cfg.I2CAddress, err)
	}
	if err := dev.SetPwmFreq(physic.Frequency(cfg.PWMFrequency) * physic.Hertz); err != nil {
		bus.Close()
		return nil, fmt.Errorf("set pwm frequency: %w", err)
	}
	group := pca9685.NewServoGroup(dev,
		dutyFromMicros(cfg.PulseMin, cfg.PWMFrequency),
		dutyFromMicros(cfg.PulseMax, cfg.PWMFrequency),
		0, 180*physic.Degree)
	return &pcaDriver{bus: bus, group: group}, nil
}

func (d *pcaDriver) Move(channel int, angle float64) error {
	return d.group.SetAngle(channel, physic.Angle(angle*float64(physic.Degree)))
}

func (d *pcaDriver) Close() error {
	return d.bus.Close()
}

// simDriver stands in when no PCA9685 is reachable. It only remembers
// the last angle per channel.
type simDriver struct {
	mu        sync.Mutex
	positions map[int]float64
}

func newSimDriver() *simDriver {
	return &simDriver{positions: make(map[int]float64)}
}

func (d *simDriver) Move(channel int, angle float64) error {
	d.mu.Lock()
	d.positions[channel] = angle
	d.mu.Unlock()
	return nil
}

func (d *simDriver) Close() error { return nil }

var (
	_ Driver = (*pcaDriver)(nil)
	_ Driver = (*simDriver)(nil)
)
