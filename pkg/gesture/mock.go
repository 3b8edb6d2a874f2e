package gesture

import "sync"

// MockMove records a single Move call.
type MockMove struct {
	Channel int
	Angle   float64
}

// MockDriver implements Driver and records every move. Useful for
// testing gesture sequencing without hardware.
type MockDriver struct {
	// Err, when set, is returned by every Move call.
	Err error

	mu     sync.Mutex
	moves  []MockMove
	closed bool
}

func (d *MockDriver) Move(channel int, angle float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.moves = append(d.moves, MockMove{Channel: channel, Angle: angle})
	return nil
}

func (d *MockDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Moves returns a copy of all recorded moves.
func (d *MockDriver) Moves() []MockMove {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]MockMove, len(d.moves))
	copy(out, d.moves)
	return out
}

// Final returns the last angle commanded on a channel and whether the
// channel moved at all.
func (d *MockDriver) Final(channel int) (float64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.moves) - 1; i >= 0; i-- {
		if d.moves[i].Channel == channel {
			return d.moves[i].Angle, true
		}
	}
	return 0, false
}

// Closed reports whether Close was called.
func (d *MockDriver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

var _ Driver = (*MockDriver)(nil)
