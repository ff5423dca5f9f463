package domain

import (
	"sync"
	"time"
)

// DiceGroup rolls GroupSize dice together and sums them once all settle.
//
// The group tracks its dice through their subscriptions, so its rolling flag
// is true whenever any die is rolling, however that roll was triggered.
// Values keep the last completed roll until every die has settled.
type DiceGroup struct {
	dice   [GroupSize]*Die
	unsubs [GroupSize]func()

	// trigger serializes RollAll so concurrent callers cannot interleave.
	trigger sync.Mutex

	mu     sync.Mutex
	state  GroupState
	dies   [GroupSize]DieState
	closed bool
	subs   observers[GroupState]
}

// NewDiceGroup returns a group of fresh dice sharing rng, clock and delay.
func NewDiceGroup(rng RNG, clock Clock, delay time.Duration) *DiceGroup {
	g := &DiceGroup{}
	for i := range GroupSize {
		d := NewDie(rng, clock, delay)
		g.dice[i] = d
		g.dies[i] = d.State()
		g.state.Values[i] = g.dies[i].Value
	}
	for i, d := range g.dice {
		g.unsubs[i] = d.Subscribe(func(s DieState) { g.onDie(i, s) })
	}
	return g
}

// RollAll rolls every die, in order, unless the group is already rolling.
// It reports whether any roll was started.
func (g *DiceGroup) RollAll() bool {
	g.trigger.Lock()
	defer g.trigger.Unlock()

	if g.Rolling() {
		return false
	}
	started := false
	for _, d := range g.dice {
		if d.Roll() {
			started = true
		}
	}
	return started
}

// onDie runs under the die's lock. Lock order is die, then group.
func (g *DiceGroup) onDie(i int, s DieState) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	prev := g.state
	g.dies[i] = s

	rolling := false
	for _, ds := range g.dies {
		rolling = rolling || ds.Rolling
	}
	switch {
	case rolling:
		g.state.Rolling = true
		g.state.HasSum = false
		g.state.Sum = 0
	case prev.Rolling:
		sum := 0
		for j, ds := range g.dies {
			g.state.Values[j] = ds.Value
			sum += ds.Value
		}
		g.state.Rolling = false
		g.state.Sum = sum
		g.state.HasSum = true
		g.state.Rolls++
	}

	if g.state != prev {
		g.subs.emit(g.state)
	}
}

// State returns a copy of the group's current state.
func (g *DiceGroup) State() GroupState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Rolling reports whether any die is rolling.
func (g *DiceGroup) Rolling() bool {
	return g.State().Rolling
}

// Sum returns the total of the last completed roll. ok is false before the
// first roll and while rolling.
func (g *DiceGroup) Sum() (sum int, ok bool) {
	s := g.State()
	return s.Sum, s.HasSum
}

// Dice returns the group's dice in display order.
func (g *DiceGroup) Dice() [GroupSize]*Die {
	return g.dice
}

// Subscribe registers fn to receive the group state after every change.
// fn runs with the group locked and must not call back into the group or its dice.
func (g *DiceGroup) Subscribe(fn func(GroupState)) (unsubscribe func()) {
	g.mu.Lock()
	id := g.subs.add(fn)
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			g.subs.remove(id)
			g.mu.Unlock()
		})
	}
}

// Close stops all pending rolls and drops subscribers.
func (g *DiceGroup) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.subs.clear()
	g.mu.Unlock()

	for i, d := range g.dice {
		g.unsubs[i]()
		d.Close()
	}
}
