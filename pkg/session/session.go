// Package session drives suggestions for one editing surface as the user
// types: debounce keystrokes, resolve the token, drop stale answers, and turn
// keyboard input into selection, acceptance or dismissal.
package session

import (
	"context"
	"slices"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/tamilserve/internal/observe"
	"github.com/bastiangx/tamilserve/internal/utils"
	"github.com/bastiangx/tamilserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// State is a session's position in the suggestion cycle.
type State int

const (
	Idle State = iota
	Debouncing
	Resolving
	Presenting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Debouncing:
		return "debouncing"
	case Resolving:
		return "resolving"
	case Presenting:
		return "presenting"
	default:
		return "unknown"
	}
}

// ID identifies an attached surface.
type ID uint64

// Span locates the token in the host buffer, in rune offsets.
type Span struct {
	Start int
	End   int
}

// Edit asks the host to replace buffer[Start:End] with Text and move the
// caret to Caret. Offsets are runes.
type Edit struct {
	Start int
	End   int
	Text  string
	Caret int
}

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	ID          ID
	State       State
	Token       string
	Span        Span
	Suggestions []string
	Selected    int
	Visible     bool
	Generation  uint64
}

// Surface is the host editor side of a session. Calls are made without any
// session lock held, so a surface may call back into the Manager.
type Surface interface {
	// Replace applies an accepted suggestion to the host buffer.
	Replace(edit Edit)
	// Render is called whenever the visible suggestion list changes.
	Render(snap Snapshot)
}

// Resolver turns a token into ranked suggestions. *suggest.Transliterator
// satisfies it.
type Resolver interface {
	Lookup(ctx context.Context, token string) (suggest.Result, error)
}

// Session is the state of one attached surface. All transitions hold mu;
// debounce timers and lookups re-enter through fire and apply.
type Session struct {
	mu       sync.Mutex
	id       ID
	surface  Surface
	resolver Resolver
	opts     Options
	logger   *log.Logger
	metrics  *observe.Metrics

	state       State
	token       string
	span        Span
	generation  uint64
	suggestions []string
	selected    int
	visible     bool

	timer  *time.Timer
	armSeq uint64
	closed bool
}

func newSession(id ID, surface Surface, resolver Resolver, opts Options) *Session {
	return &Session{
		id:       id,
		surface:  surface,
		resolver: resolver,
		opts:     opts,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
}

// TokenChanged reports the token under the caret. An empty or invalid token
// means the caret is not on a word and the session goes back to Idle.
func (s *Session) TokenChanged(token string, span Span) {
	token = utils.FoldToken(token)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if !utils.IsValidToken(token, s.opts.MinToken, s.opts.MaxToken) {
		wasVisible := s.visible
		s.resetLocked()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		if wasVisible {
			s.render(snap)
		}
		return
	}
	if token == s.token && span == s.span && s.state != Idle {
		s.mu.Unlock()
		return
	}

	wasVisible := s.visible
	s.stopTimerLocked()
	s.token, s.span = token, span
	s.suggestions, s.selected, s.visible = nil, 0, false
	s.state = Debouncing
	s.armSeq++
	seq := s.armSeq
	s.timer = time.AfterFunc(s.opts.Debounce, func() { s.fire(seq) })
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debugf("session %d: armed '%s' for %v", s.id, token, s.opts.Debounce)
	if wasVisible {
		s.render(snap)
	}
}

// fire runs on the timer goroutine and performs the stamped lookup.
func (s *Session) fire(seq uint64) {
	s.mu.Lock()
	if s.closed || seq != s.armSeq || s.state != Debouncing {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.generation++
	gen, token := s.generation, s.token
	s.state = Resolving
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.opts.LookupTimeout)
	defer cancel()
	res, err := s.resolver.Lookup(ctx, token)
	s.apply(gen, token, res, err)
}

// apply installs a lookup result if it is still the answer the session waits for.
func (s *Session) apply(gen uint64, token string, res suggest.Result, err error) {
	s.mu.Lock()
	if s.closed || gen != s.generation || s.state != Resolving {
		s.mu.Unlock()
		s.metrics.RecordStale(context.Background())
		s.logger.Debugf("session %d: dropped stale result for '%s' (gen %d)", s.id, token, gen)
		return
	}

	if err != nil || len(res.Suggestions) == 0 {
		if err != nil {
			s.logger.Debugf("session %d: lookup for '%s' failed: %v", s.id, token, err)
		}
		s.state = Idle
		s.suggestions, s.selected, s.visible = nil, 0, false
	} else {
		s.state = Presenting
		s.suggestions = slices.Clone(res.Suggestions)
		s.selected = 0
		s.visible = true
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.render(snap)
}

// Select accepts suggestion index and hands the buffer edit to the surface.
func (s *Session) Select(index int) (Edit, error) {
	s.mu.Lock()
	edit, err := s.acceptLocked(index)
	if err != nil {
		s.mu.Unlock()
		return Edit{}, err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.replace(edit)
	s.render(snap)
	return edit, nil
}

func (s *Session) acceptLocked(index int) (Edit, error) {
	if s.closed || s.state != Presenting || index < 0 || index >= len(s.suggestions) {
		return Edit{}, ErrNoSuggestion
	}
	word := s.suggestions[index]
	edit := Edit{
		Start: s.span.Start,
		End:   s.span.End,
		Text:  word + " ",
		Caret: s.span.Start + utf8.RuneCountInString(word) + 1,
	}
	s.logger.Debugf("session %d: accepted '%s' for '%s'", s.id, word, s.token)
	s.resetLocked()
	return edit, nil
}

// Dismiss hides the suggestions without touching the buffer.
func (s *Session) Dismiss() {
	s.mu.Lock()
	wasVisible := s.visible
	s.resetLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if wasVisible {
		s.render(snap)
	}
}

// HandleKey applies a keystroke and reports whether the session consumed it.
// Keys it does not consume belong to the host editor.
func (s *Session) HandleKey(key string) bool {
	s.mu.Lock()
	if s.closed || s.state != Presenting || len(s.suggestions) == 0 {
		s.mu.Unlock()
		return false
	}
	n := len(s.suggestions)

	switch key {
	case KeyDown, KeyUp:
		if key == KeyDown {
			s.selected = (s.selected + 1) % n
		} else {
			s.selected = (s.selected - 1 + n) % n
		}
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.render(snap)
		return true

	case KeyEscape, KeySpace:
		s.resetLocked()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.render(snap)
		// The host still inserts its own space.
		return key == KeyEscape
	}

	index, ok := keyIndex(key, s.selected)
	if !ok || index >= n {
		s.mu.Unlock()
		return false
	}
	edit, err := s.acceptLocked(index)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	if err != nil {
		return false
	}
	s.replace(edit)
	s.render(snap)
	return true
}

// Suggestions returns the visible list, or nil when nothing is shown.
func (s *Session) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.visible {
		return nil
	}
	return slices.Clone(s.suggestions)
}

// Snapshot returns the current view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// close stops the session for good. Lookups still in flight are dropped.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.closed = true
}

func (s *Session) resetLocked() {
	s.stopTimerLocked()
	s.state = Idle
	s.token = ""
	s.span = Span{}
	s.suggestions, s.selected, s.visible = nil, 0, false
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	// A timer that already fired sees a new sequence and gives up.
	s.armSeq++
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:          s.id,
		State:       s.state,
		Token:       s.token,
		Span:        s.span,
		Suggestions: slices.Clone(s.suggestions),
		Selected:    s.selected,
		Visible:     s.visible,
		Generation:  s.generation,
	}
}

func (s *Session) replace(edit Edit) {
	if s.surface != nil {
		s.surface.Replace(edit)
	}
}

func (s *Session) render(snap Snapshot) {
	if s.surface != nil {
		s.surface.Render(snap)
	}
}
