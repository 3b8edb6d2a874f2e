package gesture

import (
	"testing"

	"periph.io/x/conn/v3/gpio"
)

func TestDutyFromMicros(t *testing.T) {
	tests := []struct {
		name     string
		us       int
		freqHz   int
		expected gpio.Duty
	}{
		{"Min pulse at 50Hz", 500, 50, 102},
		{"Center pulse at 50Hz", 1500, 50, 307},
		{"Max pulse at 50Hz", 2500, 50, 512},
		{"Min pulse at 60Hz", 500, 60, 122},
		{"Full period at 50Hz", 20000, 50, 4096},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dutyFromMicros(tt.us, tt.freqHz); got != tt.expected {
				t.Errorf("dutyFromMicros(%d, %d) = %d, expected %d", tt.us, tt.freqHz, got, tt.expected)
			}
		})
	}
}

func TestSimDriverTracksPositions(t *testing.T) {
	d := newSimDriver()
	if err := d.Move(0, 45); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if err := d.Move(0, 135); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if got := d.positions[0]; got != 135 {
		t.Errorf("Position = %v, expected 135", got)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
