package domain

import (
	"sync"
	"time"
)

// Die is a six-sided die with a timed rolling animation.
//
// Roll flips the die into the rolling state, draws the next face and schedules
// the settle callback on the Clock. The face stays hidden until the delay
// elapses. Triggering a roll while one is in flight is ignored.
type Die struct {
	rng   RNG
	clock Clock
	delay time.Duration

	mu      sync.Mutex
	value   int
	rolling bool
	rolls   int
	pending int
	timer   Timer
	closed  bool
	subs    observers[DieState]
}

// NewDie returns a die showing MinFace. A non-positive delay falls back to
// DefaultRollDelay.
func NewDie(rng RNG, clock Clock, delay time.Duration) *Die {
	if delay <= 0 {
		delay = DefaultRollDelay
	}
	return &Die{
		rng:   rng,
		clock: clock,
		delay: delay,
		value: MinFace,
	}
}

// Roll starts a roll unless one is already in flight or the die is closed.
// It reports whether a roll was started.
func (d *Die) Roll() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.rolling || d.closed {
		return false
	}
	d.rolling = true
	// Drawing here keeps a shared RNG's draw order equal to trigger order.
	d.pending = RollFace(d.rng)
	d.timer = d.clock.AfterFunc(d.delay, d.settle)
	d.subs.emit(d.stateLocked())
	return true
}

func (d *Die) settle() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.rolling || d.closed {
		return
	}
	d.value = d.pending
	d.rolling = false
	d.rolls++
	d.timer = nil
	d.subs.emit(d.stateLocked())
}

// State returns a copy of the die's current state.
func (d *Die) State() DieState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stateLocked()
}

func (d *Die) stateLocked() DieState {
	return DieState{Value: d.value, Rolling: d.rolling, Rolls: d.rolls}
}

// Value returns the last settled face.
func (d *Die) Value() int {
	return d.State().Value
}

// Rolling reports whether a roll is in flight.
func (d *Die) Rolling() bool {
	return d.State().Rolling
}

// Subscribe registers fn to receive the state after every transition.
// fn runs with the die locked and must not call back into the die.
func (d *Die) Subscribe(fn func(DieState)) (unsubscribe func()) {
	d.mu.Lock()
	id := d.subs.add(fn)
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			d.subs.remove(id)
			d.mu.Unlock()
		})
	}
}

// Close stops a pending roll and drops all subscribers. A closed die ignores
// further rolls.
func (d *Die) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.subs.clear()
}

// RollFace draws a face in [MinFace, MaxFace] from rng.
func RollFace(rng RNG) int {
	n := rng.Intn(Faces) % Faces
	if n < 0 {
		n += Faces
	}
	return n + MinFace
}
