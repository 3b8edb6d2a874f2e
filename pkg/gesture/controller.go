package gesture

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
)

// Controller owns the two arm servos and plays gestures on them.
//
// Moves are smooth: the arm steps roughly one degree at a time and the
// whole sweep takes TransitionSpeed. Gesture methods block until the
// motion finishes; a single goroutine should own playback. Positions is
// safe to call from others.
type Controller struct {
	config    Config
	driver    Driver
	logger    *slog.Logger
	simulated bool

	mu    sync.Mutex
	left  float64
	right float64
}

// New opens the PCA9685 and readies both arms. When the board cannot be
// reached the controller still comes up, in simulation mode.
func New(opts ...Option) (*Controller, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	logger := cfg.Logger.With("component", "gesture")

	if cfg.LeftChannel == cfg.RightChannel {
		return nil, fmt.Errorf("left and right arm share channel %d", cfg.LeftChannel)
	}
	if cfg.PulseMin >= cfg.PulseMax {
		return nil, fmt.Errorf("pulse range %d..%dus is empty", cfg.PulseMin, cfg.PulseMax)
	}
	if cfg.TransitionSpeed < 0 {
		return nil, fmt.Errorf("negative transition speed %v", cfg.TransitionSpeed)
	}

	c := &Controller{
		config: cfg,
		logger: logger,
		left:   cfg.Angles.Neutral,
		right:  cfg.Angles.Neutral,
	}

	if cfg.Driver != nil {
		c.driver = cfg.Driver
		return c, nil
	}
	if cfg.Simulation {
		logger.Info("servo simulation forced, skipping hardware probe")
		c.driver = newSimDriver()
		c.simulated = true
		return c, nil
	}

	driver, err := openPCA9685(cfg)
	if err != nil {
		logger.Warn("servo board unavailable, running in simulation mode", "error", err)
		c.driver = newSimDriver()
		c.simulated = true
		return c, nil
	}
	logger.Info("servo controller ready",
		"address", fmt.Sprintf("0x%02x", cfg.I2CAddress),
		"left_channel", cfg.LeftChannel,
		"right_channel", cfg.RightChannel,
	)
	c.driver = driver
	return c, nil
}

// SetLeft moves the left arm to an absolute angle in degrees.
func (c *Controller) SetLeft(ctx context.Context, angle float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos, err := c.moveArm(ctx, c.config.LeftChannel, c.left, angle)
	c.left = pos
	return err
}

// SetRight moves the right arm to an absolute angle in degrees.
func (c *Controller) SetRight(ctx context.Context, angle float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos, err := c.moveArm(ctx, c.config.RightChannel, c.right, angle)
	c.right = pos
	return err
}

// SetBoth moves the left arm and then the right.
func (c *Controller) SetBoth(ctx context.Context, left, right float64) error {
	if err := c.SetLeft(ctx, left); err != nil {
		return err
	}
	return c.SetRight(ctx, right)
}

// moveArm sweeps one channel from its last position to target and
// returns where the arm ended up. Callers hold c.mu.
func (c *Controller) moveArm(ctx context.Context, channel int, current, target float64) (float64, error) {
	target = clampAngle(target)

	// Without hardware there is nothing to sweep.
	if c.simulated {
		c.logger.Debug("servo move", "channel", channel, "from", current, "to", target)
		if err := c.driver.Move(channel, target); err != nil {
			return current, err
		}
		return target, nil
	}

	steps := int(math.Abs(target - current))
	if steps < 1 {
		steps = 1
	}
	delay := c.config.TransitionSpeed / time.Duration(steps)
	for i := 0; i <= steps; i++ {
		angle := current + (target-current)*float64(i)/float64(steps)
		if err := c.driver.Move(channel, angle); err != nil {
			return angle, err
		}
		if err := sleep(ctx, delay); err != nil {
			return angle, err
		}
	}
	return target, nil
}

// Neutral parks both arms at the resting angle.
func (c *Controller) Neutral(ctx context.Context) error {
	a := c.config.Angles.Neutral
	return c.SetBoth(ctx, a, a)
}

// ArmsUp raises both arms.
func (c *Controller) ArmsUp(ctx context.Context) error {
	a := c.config.Angles.ArmsUp
	return c.SetBoth(ctx, a, a)
}

// ArmsDown lowers both arms.
func (c *Controller) ArmsDown(ctx context.Context) error {
	a := c.config.Angles.ArmsDown
	return c.SetBoth(ctx, a, a)
}

// Wave waves the left arm while the right stays at rest.
func (c *Controller) Wave(ctx context.Context, repetitions int) error {
	if repetitions < 1 {
		repetitions = 1
	}
	if err := c.SetRight(ctx, c.config.Angles.Neutral); err != nil {
		return err
	}
	for i := 0; i < repetitions; i++ {
		if err := c.SetLeft(ctx, c.config.Angles.WaveStart); err != nil {
			return err
		}
		if err := c.SetLeft(ctx, c.config.Angles.WaveEnd); err != nil {
			return err
		}
	}
	return c.SetLeft(ctx, c.config.Angles.Neutral)
}

// Point aims the right arm up and drops the left.
func (c *Controller) Point(ctx context.Context) error {
	if err := c.SetLeft(ctx, c.config.Angles.ArmsDown); err != nil {
		return err
	}
	return c.SetRight(ctx, c.config.Angles.PointUp)
}

// Perform plays the named gesture. None is a no-op.
func (c *Controller) Perform(ctx context.Context, g Gesture) error {
	switch g {
	case None:
		return nil
	case Neutral:
		return c.Neutral(ctx)
	case Wave:
		return c.Wave(ctx, 3)
	case ArmsUp:
		return c.ArmsUp(ctx)
	case ArmsDown:
		return c.ArmsDown(ctx)
	case Point:
		return c.Point(ctx)
	default:
		return fmt.Errorf("unknown gesture %d", int(g))
	}
}

// Reset parks both arms. Call it on startup and before shutdown.
func (c *Controller) Reset(ctx context.Context) error {
	return c.Neutral(ctx)
}

// Sweep exercises both arms across their range, one at a time and then
// together. Useful on first hardware bring-up.
func (c *Controller) Sweep(ctx context.Context) error {
	if err := c.Neutral(ctx); err != nil {
		return err
	}
	if err := sleep(ctx, time.Second); err != nil {
		return err
	}
	for _, angle := range []float64{45, 90, 135, 90} {
		if err := c.SetLeft(ctx, angle); err != nil {
			return err
		}
		if err := sleep(ctx, 500*time.Millisecond); err != nil {
			return err
		}
	}
	for _, angle := range []float64{45, 90, 135, 90} {
		if err := c.SetRight(ctx, angle); err != nil {
			return err
		}
		if err := sleep(ctx, 500*time.Millisecond); err != nil {
			return err
		}
	}
	if err := c.ArmsUp(ctx); err != nil {
		return err
	}
	if err := sleep(ctx, time.Second); err != nil {
		return err
	}
	if err := c.ArmsDown(ctx); err != nil {
		return err
	}
	if err := sleep(ctx, time.Second); err != nil {
		return err
	}
	return c.Neutral(ctx)
}

// Positions reports the last commanded angles, left then right.
func (c *Controller) Positions() (left, right float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.left, c.right
}

// Simulated reports whether the controller runs without hardware.
func (c *Controller) Simulated() bool { return c.simulated }

// Close parks the arms and releases the bus.
func (c *Controller) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Reset(ctx); err != nil {
		c.driver.Close()
		return err
	}
	return c.driver.Close()
}

func clampAngle(a float64) float64 {
	if a < 0 {
		return 0
	}
	if a > 180 {
		return 180
	}
	return a
}

// sleep waits for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
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
