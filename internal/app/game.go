package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randomtoy/dicegame/internal/domain"
	"github.com/randomtoy/dicegame/internal/logging"
	"github.com/randomtoy/dicegame/internal/ports"
)

// DefaultViewTTL is how long a view may go untouched before Sweep unmounts it.
const DefaultViewTTL = 30 * time.Minute

// Unmount reasons reported to metrics.
const (
	ReasonUnmount = "unmount"
	ReasonExpired = "expired"
	ReasonClosed  = "closed"
)

type view struct {
	id    string
	kind  domain.ViewKind
	die   *domain.Die
	group *domain.DiceGroup

	lastSeen    time.Time
	unsubscribe func()
}

// roll reports whether a roll was started.
func (v *view) roll() bool {
	if v.group != nil {
		return v.group.RollAll()
	}
	return v.die.Roll()
}

func (v *view) snapshot() ports.ViewSnapshot {
	if v.group != nil {
		return groupSnapshot(v.id, v.group.State())
	}
	return dieSnapshot(v.id, v.die.State())
}

func (v *view) close() {
	v.unsubscribe()
	if v.group != nil {
		v.group.Close()
		return
	}
	v.die.Close()
}

// GameService owns the dice of every mounted view and publishes their state.
type GameService struct {
	rng       domain.RNG
	clock     domain.Clock
	delay     time.Duration
	ttl       time.Duration
	publisher ports.Publisher
	metrics   ports.Metrics
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string

	mu    sync.Mutex
	views map[string]*view
}

type Option func(*GameService)

func WithPublisher(p ports.Publisher) Option {
	return func(s *GameService) { s.publisher = p }
}

func WithMetrics(m ports.Metrics) Option {
	return func(s *GameService) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *GameService) { s.logger = l }
}

// WithViewTTL sets the idle time after which Sweep unmounts a view.
func WithViewTTL(ttl time.Duration) Option {
	return func(s *GameService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithNow overrides the wall clock used for view expiry.
func WithNow(now func() time.Time) Option {
	return func(s *GameService) { s.now = now }
}

// WithIDGenerator overrides view id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *GameService) { s.newID = gen }
}

func NewGameService(rng domain.RNG, clock domain.Clock, delay time.Duration, opts ...Option) *GameService {
	s := &GameService{
		rng:       rng,
		clock:     clock,
		delay:     delay,
		ttl:       DefaultViewTTL,
		publisher: nopPublisher{},
		metrics:   nopMetrics{},
		logger:    logging.NewNop(),
		now:       time.Now,
		newID:     uuid.NewString,
		views:     make(map[string]*view),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount creates a view with default dice state.
func (s *GameService) Mount(ctx context.Context, kind domain.ViewKind) (ports.ViewSnapshot, error) {
	if _, err := domain.ParseViewKind(string(kind)); err != nil {
		return ports.ViewSnapshot{}, fmt.Errorf("mount %q: %w", kind, err)
	}

	v := &view{id: s.newID(), kind: kind, lastSeen: s.now()}
	switch kind {
	case domain.KindDie:
		v.die = domain.NewDie(s.rng, s.clock, s.delay)
		v.unsubscribe = v.die.Subscribe(s.dieObserver(v.id))
	case domain.KindDice:
		v.group = domain.NewDiceGroup(s.rng, s.clock, s.delay)
		v.unsubscribe = v.group.Subscribe(s.groupObserver(v.id))
	}

	s.mu.Lock()
	s.views[v.id] = v
	s.mu.Unlock()

	s.metrics.ViewMounted(kind)
	s.logger.DebugContext(ctx, "view mounted", "view_id", v.id, "kind", kind)
	return v.snapshot(), nil
}

// Roll triggers the view's roll. A roll already in flight is left untouched.
func (s *GameService) Roll(ctx context.Context, viewID string) (ports.ViewSnapshot, error) {
	v, err := s.touch(viewID)
	if err != nil {
		return ports.ViewSnapshot{}, err
	}

	if !v.roll() {
		s.metrics.RollIgnored(v.kind)
		s.logger.DebugContext(ctx, "roll ignored, already rolling", "view_id", viewID)
	}
	return v.snapshot(), nil
}

// Get returns the view's current snapshot.
func (s *GameService) Get(_ context.Context, viewID string) (ports.ViewSnapshot, error) {
	v, err := s.touch(viewID)
	if err != nil {
		return ports.ViewSnapshot{}, err
	}
	return v.snapshot(), nil
}

// Touch marks the view as in use so Sweep keeps it.
func (s *GameService) Touch(_ context.Context, viewID string) error {
	_, err := s.touch(viewID)
	return err
}

func (s *GameService) touch(viewID string) (*view, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[viewID]
	if !ok {
		return nil, fmt.Errorf("view %s: %w", viewID, domain.ErrViewNotFound)
	}
	v.lastSeen = s.now()
	return v, nil
}

// Unmount destroys the view and stops any pending roll.
func (s *GameService) Unmount(ctx context.Context, viewID string) error {
	s.mu.Lock()
	v, ok := s.views[viewID]
	delete(s.views, viewID)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("view %s: %w", viewID, domain.ErrViewNotFound)
	}
	s.destroy(v, ReasonUnmount)
	s.logger.DebugContext(ctx, "view unmounted", "view_id", viewID)
	return nil
}

// Sweep unmounts views idle for longer than the TTL and returns how many.
func (s *GameService) Sweep(now time.Time) int {
	var expired []*view
	s.mu.Lock()
	for id, v := range s.views {
		if now.Sub(v.lastSeen) > s.ttl {
			expired = append(expired, v)
			delete(s.views, id)
		}
	}
	s.mu.Unlock()

	for _, v := range expired {
		s.destroy(v, ReasonExpired)
	}
	if len(expired) > 0 {
		s.logger.Debug("expired views swept", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps expired views every interval until ctx is done, then unmounts
// all remaining views.
func (s *GameService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

// Len returns the number of mounted views.
func (s *GameService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func (s *GameService) closeAll() {
	s.mu.Lock()
	views := s.views
	s.views = make(map[string]*view)
	s.mu.Unlock()

	for _, v := range views {
		s.destroy(v, ReasonClosed)
	}
}

func (s *GameService) destroy(v *view, reason string) {
	v.close()
	s.publisher.Drop(v.id)
	s.metrics.ViewUnmounted(v.kind, reason)
}

// dieObserver runs under the die's lock; it only reads the state it is given.
func (s *GameService) dieObserver(viewID string) func(domain.DieState) {
	return func(st domain.DieState) {
		if st.Rolling {
			s.metrics.RollStarted(domain.KindDie)
		} else {
			s.metrics.DieSettled(st.Value)
		}
		s.publisher.Publish(dieSnapshot(viewID, st))
	}
}

// groupObserver runs under the group's lock. Calls are serialized so prev is safe.
func (s *GameService) groupObserver(viewID string) func(domain.GroupState) {
	var prev domain.GroupState
	return func(st domain.GroupState) {
		switch {
		case st.Rolling && !prev.Rolling:
			s.metrics.RollStarted(domain.KindDice)
		case !st.Rolling && prev.Rolling:
			for _, v := range st.Values {
				s.metrics.DieSettled(v)
			}
			s.metrics.GroupSettled(st.Sum)
		}
		prev = st
		s.publisher.Publish(groupSnapshot(viewID, st))
	}
}

func dieSnapshot(viewID string, st domain.DieState) ports.ViewSnapshot {
	display := DieDisplay(st)
	return ports.ViewSnapshot{
		ViewID:      viewID,
		Kind:        domain.KindDie,
		Rolling:     st.Rolling,
		Values:      []int{st.Value},
		Rolls:       st.Rolls,
		Display:     display,
		DiceDisplay: []string{display},
	}
}

func groupSnapshot(viewID string, st domain.GroupState) ports.ViewSnapshot {
	values := make([]int, len(st.Values))
	dice := make([]string, len(st.Values))
	for i, v := range st.Values {
		values[i] = v
		dice[i] = DieDisplay(domain.DieState{Value: v, Rolling: st.Rolling})
	}
	return ports.ViewSnapshot{
		ViewID:      viewID,
		Kind:        domain.KindDice,
		Rolling:     st.Rolling,
		Values:      values,
		Sum:         st.Sum,
		HasSum:      st.HasSum,
		Rolls:       st.Rolls,
		Display:     GroupDisplay(st),
		DiceDisplay: dice,
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(ports.ViewSnapshot) {}
func (nopPublisher) Drop(string)                {}

type nopMetrics struct{}

func (nopMetrics) ViewMounted(domain.ViewKind)           {}
func (nopMetrics) ViewUnmounted(domain.ViewKind, string) {}
func (nopMetrics) RollStarted(domain.ViewKind)           {}
func (nopMetrics) RollIgnored(domain.ViewKind)           {}
func (nopMetrics) DieSettled(int)                        {}
func (nopMetrics) GroupSettled(int)                      {}
