package gesture

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestController(t *testing.T, driver Driver) *Controller {
	t.Helper()
	c, err := New(
		WithDriver(driver),
		WithTransitionSpeed(0),
	)
	if err != nil {
		t.Fatalf("Failed to create controller: %v", err)
	}
	return c
}

func TestControllerWave(t *testing.T) {
	driver := &MockDriver{}
	c := newTestController(t, driver)

	if err := c.Wave(context.Background(), 2); err != nil {
		t.Fatalf("Wave failed: %v", err)
	}

	left, right := c.Positions()
	if left != 90 || right != 90 {
		t.Errorf("Arms should rest at neutral, got left=%v right=%v", left, right)
	}

	// The left arm must reach both wave endpoints on every repetition.
	starts, ends := 0, 0
	for _, m := range driver.Moves() {
		if m.Channel != 0 {
			continue
		}
		switch m.Angle {
		case 60:
			starts++
		case 120:
			ends++
		}
	}
	if starts < 2 || ends < 2 {
		t.Errorf("Expected 2 wave cycles, got %d starts and %d ends", starts, ends)
	}
}

func TestControllerPoint(t *testing.T) {
	c := newTestController(t, &MockDriver{})

	if err := c.Point(context.Background()); err != nil {
		t.Fatalf("Point failed: %v", err)
	}

	left, right := c.Positions()
	if left != 135 {
		t.Errorf("Left arm should drop to 135, got %v", left)
	}
	if right != 45 {
		t.Errorf("Right arm should point up at 45, got %v", right)
	}
}

func TestControllerPerform(t *testing.T) {
	tests := []struct {
		name    string
		gesture Gesture
		left    float64
		right   float64
	}{
		{"Neutral", Neutral, 90, 90},
		{"Arms up", ArmsUp, 45, 45},
		{"Arms down", ArmsDown, 135, 135},
		{"Point", Point, 135, 45},
		{"Wave returns to rest", Wave, 90, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(t, &MockDriver{})
			if err := c.Perform(context.Background(), tt.gesture); err != nil {
				t.Fatalf("Perform(%v) failed: %v", tt.gesture, err)
			}
			left, right := c.Positions()
			if left != tt.left || right != tt.right {
				t.Errorf("Positions = (%v, %v), expected (%v, %v)", left, right, tt.left, tt.right)
			}
		})
	}
}

func TestControllerPerformNone(t *testing.T) {
	driver := &MockDriver{}
	c := newTestController(t, driver)

	if err := c.Perform(context.Background(), None); err != nil {
		t.Fatalf("Perform(None) failed: %v", err)
	}
	if len(driver.Moves()) != 0 {
		t.Errorf("None should not move servos, got %d moves", len(driver.Moves()))
	}
}

func TestControllerClampsAngles(t *testing.T) {
	c := newTestController(t, &MockDriver{})
	ctx := context.Background()

	if err := c.SetLeft(ctx, 400); err != nil {
		t.Fatalf("SetLeft failed: %v", err)
	}
	if err := c.SetRight(ctx, -20); err != nil {
		t.Fatalf("SetRight failed: %v", err)
	}

	left, right := c.Positions()
	if left != 180 {
		t.Errorf("Left angle should clamp to 180, got %v", left)
	}
	if right != 0 {
		t.Errorf("Right angle should clamp to 0, got %v", right)
	}
}

func TestControllerDriverError(t *testing.T) {
	driverErr := errors.New("bus fault")
	c := newTestController(t, &MockDriver{Err: driverErr})

	if err := c.Neutral(context.Background()); !errors.Is(err, driverErr) {
		t.Errorf("Expected driver error, got %v", err)
	}
}

func TestControllerCancelledMove(t *testing.T) {
	c, err := New(
		WithDriver(&MockDriver{}),
		WithTransitionSpeed(time.Second),
	)
	if err != nil {
		t.Fatalf("Failed to create controller: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.SetLeft(ctx, 45); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestControllerSimulationFallback(t *testing.T) {
	c, err := New(
		WithI2CBus("no-such-bus"),
		WithTransitionSpeed(0),
	)
	if err != nil {
		t.Fatalf("New should fall back to simulation, got %v", err)
	}
	defer c.Close()

	if !c.Simulated() {
		t.Fatal("Controller should report simulation mode")
	}
	if err := c.ArmsUp(context.Background()); err != nil {
		t.Fatalf("Simulated gesture failed: %v", err)
	}
	left, right := c.Positions()
	if left != 45 || right != 45 {
		t.Errorf("Positions = (%v, %v), expected (45, 45)", left, right)
	}
}

func TestControllerRejectsSharedChannel(t *testing.T) {
	if _, err := New(WithDriver(&MockDriver{}), WithChannels(3, 3)); err == nil {
		t.Error("Expected error for shared channel")
	}
}

func TestControllerCloseParksArms(t *testing.T) {
	driver := &MockDriver{}
	c := newTestController(t, driver)

	if err := c.ArmsUp(context.Background()); err != nil {
		t.Fatalf("ArmsUp failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if angle, ok := driver.Final(0); !ok || angle != 90 {
		t.Errorf("Left arm should park at 90, got %v", angle)
	}
	if !driver.Closed() {
		t.Error("Driver should be closed")
	}
}
