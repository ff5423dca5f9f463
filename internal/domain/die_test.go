package domain_test

import (
	"testing"
	"time"

	"github.com/randomtoy/dicegame/internal/adapters/clock"
	"github.com/randomtoy/dicegame/internal/domain"
)

// deterministicRNG returns values from a pre-set sequence.
type deterministicRNG struct {
	values []int
	idx    int
}

func (r *deterministicRNG) Intn(n int) int {
	v := r.values[r.idx%len(r.values)] % n
	r.idx++
	return v
}

const delay = 2000 * time.Millisecond

func newManual() *clock.Manual {
	return clock.NewManual(time.Unix(0, 0))
}

func TestDie_InitialState(t *testing.T) {
	d := domain.NewDie(&deterministicRNG{values: []int{0}}, newManual(), delay)

	s := d.State()
	if s.Value != 1 {
		t.Errorf("expected initial value 1, got %d", s.Value)
	}
	if s.Rolling {
		t.Error("expected die not to be rolling")
	}
}

func TestDie_RollSettlesAfterDelay(t *testing.T) {
	c := newManual()
	d := domain.NewDie(&deterministicRNG{values: []int{4}}, c, delay)

	d.Roll()
	if !d.Rolling() {
		t.Fatal("expected die to be rolling right after trigger")
	}
	if d.Value() != 1 {
		t.Errorf("value changed before delay elapsed: %d", d.Value())
	}

	c.Advance(delay - time.Millisecond)
	if !d.Rolling() {
		t.Fatal("die settled before the delay elapsed")
	}

	c.Advance(time.Millisecond)
	s := d.State()
	if s.Rolling {
		t.Fatal("expected die to settle after delay")
	}
	if s.Value != 5 {
		t.Errorf("expected value 5, got %d", s.Value)
	}
	if s.Rolls != 1 {
		t.Errorf("expected 1 completed roll, got %d", s.Rolls)
	}
}

func TestDie_ReentrantRollIgnored(t *testing.T) {
	c := newManual()
	rng := &deterministicRNG{values: []int{2, 3}}
	d := domain.NewDie(rng, c, delay)

	d.Roll()
	c.Advance(time.Second)
	d.Roll()
	d.Roll()

	if c.Pending() != 1 {
		t.Fatalf("expected exactly one pending timer, got %d", c.Pending())
	}

	// The original timer still fires at 2s, not 3s.
	c.Advance(time.Second)
	if d.Rolling() {
		t.Fatal("re-entrant trigger restarted the timer")
	}
	if rng.idx != 1 {
		t.Errorf("expected one value drawn, got %d", rng.idx)
	}
}

func TestDie_RollReportsStart(t *testing.T) {
	c := newManual()
	d := domain.NewDie(&deterministicRNG{values: []int{0}}, c, delay)

	if !d.Roll() {
		t.Error("expected first Roll to start")
	}
	if d.Roll() {
		t.Error("expected Roll during a roll to report no start")
	}
	d.Close()
	c.Advance(delay)
	if d.Roll() {
		t.Error("expected Roll on a closed die to report no start")
	}
}

func TestDie_ValuesAlwaysInRange(t *testing.T) {
	c := newManual()
	rng := &deterministicRNG{values: []int{0, 1, 2, 3, 4, 5, 6, 7, -1, 11}}
	d := domain.NewDie(rng, c, delay)

	for range 20 {
		d.Roll()
		c.Advance(delay)
		v := d.Value()
		if v < domain.MinFace || v > domain.MaxFace {
			t.Fatalf("value out of range: %d", v)
		}
	}
}

func TestDie_SubscribeSeesTransitions(t *testing.T) {
	c := newManual()
	d := domain.NewDie(&deterministicRNG{values: []int{5}}, c, delay)

	var got []domain.DieState
	unsubscribe := d.Subscribe(func(s domain.DieState) { got = append(got, s) })

	d.Roll()
	d.Roll()
	c.Advance(delay)

	want := []domain.DieState{
		{Value: 1, Rolling: true},
		{Value: 6, Rolling: false, Rolls: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d notifications, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("notification %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}

	unsubscribe()
	d.Roll()
	if len(got) != len(want) {
		t.Error("received notification after unsubscribe")
	}
}

func TestDie_CloseStopsPendingRoll(t *testing.T) {
	c := newManual()
	d := domain.NewDie(&deterministicRNG{values: []int{3}}, c, delay)

	d.Roll()
	d.Close()
	if c.Pending() != 0 {
		t.Fatalf("expected timer to be stopped, %d pending", c.Pending())
	}

	d.Roll()
	if c.Pending() != 0 {
		t.Error("closed die scheduled a new roll")
	}
}

func TestNewDie_DefaultDelay(t *testing.T) {
	c := newManual()
	d := domain.NewDie(&deterministicRNG{values: []int{0}}, c, 0)

	d.Roll()
	c.Advance(domain.DefaultRollDelay - time.Nanosecond)
	if !d.Rolling() {
		t.Fatal("expected die to still be rolling")
	}
	c.Advance(time.Nanosecond)
	if d.Rolling() {
		t.Fatal("expected die to settle after DefaultRollDelay")
	}
}
