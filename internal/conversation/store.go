package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/robotics-consultant/internal/observability/metrics"
)

const (
	// DefaultConversationID is used when the caller supplies no identifier.
	DefaultConversationID = "default"
	// DefaultHistoryWindow bounds the turns retained per conversation.
	DefaultHistoryWindow = 20
	// DefaultIdleTTL is how long an untouched conversation survives a sweep.
	DefaultIdleTTL = 2 * time.Hour
)

// State is everything the engine remembers about one conversation.
type State struct {
	ID         string          `json:"id"`
	Messages   []Turn          `json:"messages"`
	Profile    Profile         `json:"profile"`
	LastIntent *Classification `json:"lastIntent,omitempty"`
	// Seq increases on every appended turn.
	Seq        uint64    `json:"seq"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
}

func (s *State) snapshot() State {
	out := *s
	out.Messages = append([]Turn(nil), s.Messages...)
	out.Profile = s.Profile.clone()
	if s.LastIntent != nil {
		intent := *s.LastIntent
		out.LastIntent = &intent
	}
	return out
}

// Store keeps per-conversation state in process memory. Every method is safe
// for concurrent use and returns copies, never live state.
type Store struct {
	mu      sync.RWMutex
	states  map[string]*State
	window  int
	idleTTL time.Duration
	now     func() time.Time
	metrics *metrics.ConsultationMetrics
}

type StoreOption func(*Store)

// WithHistoryWindow sets the maximum number of turns kept per conversation.
func WithHistoryWindow(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.window = n
		}
	}
}

// WithIdleTTL sets how long a conversation may stay untouched before Sweep
// removes it. Zero disables eviction.
func WithIdleTTL(d time.Duration) StoreOption {
	return func(s *Store) {
		s.idleTTL = d
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStoreMetrics reports conversation counts and evictions.
func WithStoreMetrics(m *metrics.ConsultationMetrics) StoreOption {
	return func(s *Store) {
		s.metrics = m
	}
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		states:  make(map[string]*State),
		window:  DefaultHistoryWindow,
		idleTTL: DefaultIdleTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Window returns the configured history bound.
func (s *Store) Window() int {
	return s.window
}

// NormalizeID maps a blank identifier onto DefaultConversationID.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultConversationID
	}
	return id
}

// GetOrCreate returns a snapshot of the conversation, creating it if needed.
func (s *Store) GetOrCreate(id string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(NormalizeID(id)).snapshot()
}

// Snapshot is GetOrCreate under the name callers use when they only read.
func (s *Store) Snapshot(id string) State {
	return s.GetOrCreate(id)
}

func (s *Store) getOrCreateLocked(id string) *State {
	st, ok := s.states[id]
	if !ok {
		now := s.now()
		st = &State{
			ID:         id,
			Profile:    NewProfile(),
			CreatedAt:  now,
			LastActive: now,
		}
		s.states[id] = st
		s.metrics.SetConversations(len(s.states))
	}
	return st
}

// AppendTurn pushes a turn and trims the oldest turns beyond the window.
func (s *Store) AppendTurn(id string, role Role, text string) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(s.getOrCreateLocked(NormalizeID(id)), role, text)
}

// AppendTurnIfCurrent appends only when the conversation is still at seq.
// It reports false, recording nothing, when another turn got there first or
// the conversation was evicted.
func (s *Store) AppendTurnIfCurrent(id string, seq uint64, role Role, text string) (Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[NormalizeID(id)]
	if !ok || st.Seq != seq {
		return Turn{}, false
	}
	return s.appendLocked(st, role, text), true
}

func (s *Store) appendLocked(st *State, role Role, text string) Turn {
	now := s.now()
	turn := Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: now,
	}
	st.Messages = append(st.Messages, turn)
	if over := len(st.Messages) - s.window; over > 0 {
		st.Messages = append([]Turn(nil), st.Messages[over:]...)
	}
	st.Seq++
	st.LastActive = now
	return turn
}

// History returns the retained turns, most recent last. Unknown
// conversations have no history; they are not created.
func (s *Store) History(id string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[NormalizeID(id)]
	if !ok {
		return []Turn{}
	}
	return append([]Turn{}, st.Messages...)
}

// UpdateProfile applies fn to the stored profile and returns the result.
func (s *Store) UpdateProfile(id string, fn func(Profile) Profile) Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrCreateLocked(NormalizeID(id))
	st.Profile = fn(st.Profile.clone())
	return st.Profile.clone()
}

// SetLastIntent records the most recent classification.
func (s *Store) SetLastIntent(id string, c Classification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrCreateLocked(NormalizeID(id))
	st.LastIntent = &c
}

// Len returns the number of live conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

// Sweep evicts conversations idle for longer than the idle TTL and returns
// how many were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.idleTTL <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := now.Add(-s.idleTTL)
	removed := 0
	for id, st := range s.states {
		if st.LastActive.Before(cutoff) {
			delete(s.states, id)
			removed++
		}
	}
	if removed > 0 {
		s.metrics.ObserveEvictions(removed)
		s.metrics.SetConversations(len(s.states))
	}
	return removed
}

// RunJanitor sweeps every interval until ctx is cancelled.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}
