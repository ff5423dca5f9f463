package ports

import "github.com/randomtoy/dicegame/internal/domain"

// Metrics records game activity.
type Metrics interface {
	ViewMounted(kind domain.ViewKind)
	ViewUnmounted(kind domain.ViewKind, reason string)
	RollStarted(kind domain.ViewKind)
	RollIgnored(kind domain.ViewKind)
	DieSettled(face int)
	GroupSettled(sum int)
}
