package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bastiangx/tamilserve/internal/logger"
	"github.com/bastiangx/tamilserve/internal/observe"
	"github.com/bastiangx/tamilserve/internal/utils"
	"github.com/charmbracelet/log"
)

var (
	// ErrUnknownSession is returned for an ID that is not attached.
	ErrUnknownSession = errors.New("unknown session")
	// ErrNoSuggestion is returned when there is nothing to accept at an index.
	ErrNoSuggestion = errors.New("no suggestion to accept")
)

// Session defaults. Debounce is clamped to [MinDebounce, MaxDebounce].
const (
	DefaultDebounce      = 180 * time.Millisecond
	MinDebounce          = 120 * time.Millisecond
	MaxDebounce          = 250 * time.Millisecond
	DefaultMinToken      = 2
	DefaultMaxToken      = 60
	DefaultLookupTimeout = 2 * time.Second
)

// Options configures every session a Manager creates.
type Options struct {
	Debounce      time.Duration
	MinToken      int
	MaxToken      int
	LookupTimeout time.Duration
	Metrics       *observe.Metrics
	Logger        *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	o.Debounce = min(max(o.Debounce, MinDebounce), MaxDebounce)
	if o.MinToken <= 0 {
		o.MinToken = DefaultMinToken
	}
	if o.MaxToken <= 0 {
		o.MaxToken = DefaultMaxToken
	}
	if o.LookupTimeout <= 0 {
		o.LookupTimeout = DefaultLookupTimeout
	}
	if o.Logger == nil {
		o.Logger = logger.New("session")
	}
	return o
}

// Manager owns the sessions of one engine. One Resolver, and through it one
// cache, is shared by every attached surface.
type Manager struct {
	mu       sync.RWMutex
	resolver Resolver
	opts     Options
	sessions map[ID]*Session
	nextID   ID
}

// NewManager creates a manager resolving tokens through resolver.
func NewManager(resolver Resolver, opts Options) *Manager {
	return &Manager{
		resolver: resolver,
		opts:     opts.withDefaults(),
		sessions: make(map[ID]*Session),
	}
}

// Options returns the effective session options.
func (m *Manager) Options() Options { return m.opts }

// Attach creates a session for surface and returns its ID.
func (m *Manager) Attach(surface Surface) ID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.sessions[id] = newSession(id, surface, m.resolver, m.opts)
	m.opts.Logger.Debugf("Attached session %d", id)
	return id
}

func (m *Manager) get(id ID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %d: %w", id, ErrUnknownSession)
	}
	return s, nil
}

// TokenChanged feeds the token under the caret into the session. It returns
// immediately; suggestions arrive through Surface.Render.
func (m *Manager) TokenChanged(id ID, token string, span Span) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	s.TokenChanged(token, span)
	return nil
}

// BufferChanged extracts the Latin run ending at caret from text and feeds
// it to TokenChanged. caret is a rune offset.
func (m *Manager) BufferChanged(id ID, text string, caret int) error {
	token, start, end, ok := utils.TrailingToken([]rune(text), caret)
	if !ok {
		return m.TokenChanged(id, "", Span{Start: caret, End: caret})
	}
	return m.TokenChanged(id, token, Span{Start: start, End: end})
}

// Suggestions returns the visible suggestions of a session.
func (m *Manager) Suggestions(id ID) ([]string, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return s.Suggestions(), nil
}

// Snapshot returns the full view of a session.
func (m *Manager) Snapshot(id ID) (Snapshot, error) {
	s, err := m.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(), nil
}

// Select accepts the suggestion at index.
func (m *Manager) Select(id ID, index int) (Edit, error) {
	s, err := m.get(id)
	if err != nil {
		return Edit{}, err
	}
	return s.Select(index)
}

// Dismiss hides a session's suggestions.
func (m *Manager) Dismiss(id ID) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	s.Dismiss()
	return nil
}

// HandleKey routes a keystroke to a session. consumed is false for keys the
// host should process itself.
func (m *Manager) HandleKey(id ID, key string) (consumed bool, err error) {
	s, err := m.get(id)
	if err != nil {
		return false, err
	}
	return s.HandleKey(key), nil
}

// Detach drops a session. The shared cache is left alone.
func (m *Manager) Detach(id ID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %d: %w", id, ErrUnknownSession)
	}
	s.close()
	m.opts.Logger.Debugf("Detached session %d", id)
	return nil
}

// Len returns the number of attached sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close detaches every session and clears the resolver's cache when it has
// one.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[ID]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	if c, ok := m.resolver.(interface{ ClearCache() }); ok {
		c.ClearCache()
	}
	m.opts.Logger.Debugf("Closed %d sessions", len(sessions))
}
