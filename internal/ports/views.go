package ports

import "github.com/randomtoy/dicegame/internal/domain"

// ViewSnapshot is the presentation of a mounted view's current state.
type ViewSnapshot struct {
	ViewID  string
	Kind    domain.ViewKind
	Rolling bool
	Values  []int
	// Sum is set for dice views once a roll has completed.
	Sum    int
	HasSum bool
	Rolls  int
	// Display is the text of the result region: a face, "Result", "Rolling..." or a sum.
	Display     string
	DiceDisplay []string
}

// Publisher fans view snapshots out to whoever renders them.
type Publisher interface {
	// Publish must not block.
	Publish(snap ViewSnapshot)
	// Drop ends every subscription to the view.
	Drop(viewID string)
}
