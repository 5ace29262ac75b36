package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bastiangx/tamilserve/internal/logger"
	"github.com/bastiangx/tamilserve/internal/utils"
	"github.com/bastiangx/tamilserve/pkg/session"
	"github.com/bastiangx/tamilserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Defaults for one-shot requests.
const (
	DefaultLimit    = 6
	DefaultMaxToken = 60
)

// Options configures a Server. Nil reader and writer mean stdin and stdout.
type Options struct {
	Reader       io.Reader
	Writer       io.Writer
	DefaultLimit int
	MaxToken     int
	Logger       *log.Logger
}

// Server handles msgpack IPC for one-shot transliteration and editor sessions.
type Server struct {
	engine   suggest.ITransliterator
	sessions *session.Manager
	dec      *msgpack.Decoder
	logger   *log.Logger
	limit    int
	maxToken int
	requests atomic.Int64

	// Frames are written from the request loop and from session timers.
	wmu sync.Mutex
	enc *msgpack.Encoder
}

// NewServer creates a server over engine and sessions.
func NewServer(engine suggest.ITransliterator, sessions *session.Manager, opts Options) *Server {
	if opts.Reader == nil {
		opts.Reader = os.Stdin
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.MaxToken <= 0 {
		opts.MaxToken = DefaultMaxToken
	}
	if opts.Logger == nil {
		opts.Logger = logger.New("ipc")
	}
	return &Server{
		engine:   engine,
		sessions: sessions,
		dec:      msgpack.NewDecoder(bufio.NewReader(opts.Reader)),
		logger:   opts.Logger,
		limit:    opts.DefaultLimit,
		maxToken: opts.MaxToken,
		enc:      msgpack.NewEncoder(opts.Writer),
	}
}

// Start serves requests until the input ends. All sessions are closed on
// return.
func (s *Server) Start() error {
	s.logger.Debug("Starting Server.")
	defer s.sessions.Close()

	s.send(map[string]string{"status": "ready"})

	for {
		var raw msgpack.RawMessage
		if err := s.dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			s.logger.Errorf("Reading request stream: %v", err)
			return err
		}
		s.requests.Add(1)

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.logger.Errorf("Unmarshaling request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handle(req)
	}
}

func (s *Server) handle(req Request) {
	action := req.Action
	if action == "" && req.Token != "" {
		action = ActionTranslit
	}

	switch action {
	case ActionTranslit:
		s.handleTranslit(req)
	case ActionAttach:
		s.handleAttach(req)
	case ActionToken:
		s.handleToken(req)
	case ActionKey:
		s.handleKey(req)
	case ActionSelect:
		s.handleSelect(req)
	case ActionDismiss:
		s.reply(req, s.sessions.Dismiss(session.ID(req.Session)))
	case ActionDetach:
		s.reply(req, s.sessions.Detach(session.ID(req.Session)))
	case ActionSuggestions:
		s.handleSuggestions(req)
	case ActionHealth:
		s.send(HealthResponse{
			ID:       req.ID,
			Status:   "ok",
			Sessions: s.sessions.Len(),
			Requests: s.requests.Load(),
			Stats:    s.engine.Stats(),
		})
	case ActionClear:
		s.engine.ClearCache()
		s.send(SessionResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleTranslit(req Request) {
	token := utils.FoldToken(req.Token)
	switch {
	case token == "":
		s.sendError(req.ID, "Missing 'p' parameter", 400)
		return
	case !utils.IsLatinToken(token):
		s.sendError(req.ID, "Token must contain only Latin letters", 400)
		return
	case len(token) > s.maxToken:
		s.sendError(req.ID, fmt.Sprintf("Token exceeds maximum length of %d characters", s.maxToken), 400)
		return
	}

	limit := req.Limit
	if limit < 1 {
		limit = s.limit
	}

	start := time.Now()
	suggestions := s.engine.Suggest(token, limit)
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(suggestions))
	out := make([]TranslitSuggestion, len(suggestions))
	for i, sg := range suggestions {
		out[i] = TranslitSuggestion{Word: sg.Word, Rank: ranks[i], Score: sg.Score}
	}
	src := string(suggest.SourceLocal)
	if len(out) == 0 {
		src = string(suggest.SourceNone)
	} else if _, ok := s.engine.Override(token); ok {
		src = string(suggest.SourceOverride)
	}
	s.send(TranslitResponse{
		ID:          req.ID,
		Suggestions: out,
		Count:       len(out),
		TimeTaken:   elapsed.Microseconds(),
		Source:      src,
	})
}

func (s *Server) handleAttach(req Request) {
	surface := &ipcSurface{srv: s}
	id := s.sessions.Attach(surface)
	surface.id.Store(uint64(id))
	s.send(SessionResponse{ID: req.ID, Status: "ok", Session: uint64(id)})
}

func (s *Server) handleToken(req Request) {
	id := session.ID(req.Session)
	var err error
	if req.Caret != nil {
		err = s.sessions.BufferChanged(id, req.Text, *req.Caret)
	} else {
		err = s.sessions.TokenChanged(id, req.Token, session.Span{Start: req.Start, End: req.End})
	}
	s.reply(req, err)
}

func (s *Server) handleKey(req Request) {
	consumed, err := s.sessions.HandleKey(session.ID(req.Session), req.Key)
	if err != nil {
		s.reply(req, err)
		return
	}
	s.send(SessionResponse{ID: req.ID, Status: "ok", Session: req.Session, Consumed: consumed})
}

func (s *Server) handleSelect(req Request) {
	_, err := s.sessions.Select(session.ID(req.Session), req.Index)
	if err != nil {
		s.reply(req, err)
		return
	}
	s.send(SessionResponse{ID: req.ID, Status: "ok", Session: req.Session, Consumed: true})
}

func (s *Server) handleSuggestions(req Request) {
	snap, err := s.sessions.Snapshot(session.ID(req.Session))
	if err != nil {
		s.reply(req, err)
		return
	}
	var list []string
	if snap.Visible {
		list = snap.Suggestions
	}
	s.send(SessionResponse{
		ID:          req.ID,
		Status:      "ok",
		Session:     req.Session,
		State:       snap.State.String(),
		Suggestions: list,
		Selected:    snap.Selected,
	})
}

// reply acknowledges a session action or reports its error.
func (s *Server) reply(req Request, err error) {
	switch {
	case err == nil:
		s.send(SessionResponse{ID: req.ID, Status: "ok", Session: req.Session})
	case errors.Is(err, session.ErrUnknownSession):
		s.sendError(req.ID, err.Error(), 404)
	case errors.Is(err, session.ErrNoSuggestion):
		s.sendError(req.ID, err.Error(), 409)
	default:
		s.sendError(req.ID, err.Error(), 500)
	}
}

// send encodes one frame. Safe for concurrent use.
func (s *Server) send(v any) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := s.enc.Encode(v); err != nil {
		s.logger.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.logger.Debugf("Request %q failed: %s (%d)", id, message, code)
	s.send(CompletionError{ID: id, Error: message, Code: code})
}

// ipcSurface forwards session callbacks as pushed events.
type ipcSurface struct {
	srv *Server
	id  atomic.Uint64
}

func (p *ipcSurface) Replace(edit session.Edit) {
	p.srv.send(EditEvent{
		Event:   EventEdit,
		Session: p.id.Load(),
		Start:   edit.Start,
		End:     edit.End,
		Text:    edit.Text,
		Caret:   edit.Caret,
	})
}

func (p *ipcSurface) Render(snap session.Snapshot) {
	p.srv.send(SuggestEvent{
		Event:       EventSuggest,
		Session:     uint64(snap.ID),
		Token:       snap.Token,
		Suggestions: snap.Suggestions,
		Selected:    snap.Selected,
		Visible:     snap.Visible,
	})
}
