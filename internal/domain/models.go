package domain

import "time"

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Clock schedules deferred callbacks. It is the only suspension point of a roll.
type Clock interface {
	// AfterFunc calls f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to a callback scheduled on a Clock.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

const (
	MinFace = 1
	MaxFace = 6
	Faces   = MaxFace - MinFace + 1

	// GroupSize is the number of dice in a DiceGroup.
	GroupSize = 2

	// DefaultRollDelay is how long a die animates before its value settles.
	DefaultRollDelay = 2 * time.Second
)

// DieState is a point-in-time copy of a Die.
type DieState struct {
	Value   int  `json:"value"`
	Rolling bool `json:"rolling"`
	// Rolls counts completed rolls.
	Rolls int `json:"rolls"`
}

// GroupState is a point-in-time copy of a DiceGroup.
type GroupState struct {
	Values  [GroupSize]int `json:"values"`
	Rolling bool           `json:"rolling"`
	// Sum is only meaningful when HasSum is true.
	Sum    int  `json:"sum"`
	HasSum bool `json:"has_sum"`
	Rolls  int  `json:"rolls"`
}

// ViewKind identifies which dice component a mounted view owns.
type ViewKind string

const (
	// KindDie is the home view's single die.
	KindDie ViewKind = "die"
	// KindDice is the dice-game view's DiceGroup.
	KindDice ViewKind = "dice"
)

// ParseViewKind validates a raw kind.
func ParseViewKind(raw string) (ViewKind, error) {
	switch k := ViewKind(raw); k {
	case KindDie, KindDice:
		return k, nil
	default:
		return "", ErrUnknownViewKind
	}
}
