/*
Package server implements msgpack IPC for transliteration services.

The server reads a stream of msgpack maps from stdin and writes msgpack maps to
stdout. Logs go to stderr so they never interleave with frames.

# IPC

Every request carries an ID and an action. A request with no action and a
"p" field is a one-shot transliteration, the same minimal shape the
completion protocol used:

	{"id": "req_001", "p": "thendral", "l": 6}

The server answers with ranked Tamil renderings:

	{"id": "req_001", "s": [{"w": "தென்றல்", "r": 1, "sc": 0}, ...], "c": 4, "t": 85, "src": "local"}

Editors that want incremental suggestions attach a session and report the
token under the caret as the user types:

	{"id": "a1", "action": "attach"}
	{"id": "t1", "action": "token", "sid": 1, "p": "vanaka", "start": 0, "end": 6}
	{"id": "t2", "action": "token", "sid": 1, "text": "நான் vanakkam", "caret": 13}

Suggestions are debounced and arrive later as pushed events with no ID:

	{"ev": "suggest", "sid": 1, "s": ["வணக்கம்"], "sel": 0, "v": true}

Keystrokes are routed with "key"; an accepted suggestion comes back as an
edit event the editor applies to its buffer:

	{"id": "k1", "action": "key", "sid": 1, "key": "enter"}
	{"ev": "edit", "sid": 1, "start": 5, "end": 13, "text": "வணக்கம் ", "caret": 13}

Other actions: select, dismiss, suggestions, detach, health, clear.

# Errors

Failures are answered with a CompletionError frame: {"id", "e", "c"} where c
is 400 for malformed requests, 404 for an unknown session, 409 when there is
nothing to accept and 500 otherwise. Lookup failures inside a session are not
errors; the session just shows nothing.
*/
package server

// Request is the union of every request shape. Fields an action does not use
// are ignored.
type Request struct {
	ID      string `msgpack:"id"`
	Action  string `msgpack:"action,omitempty"`
	Token   string `msgpack:"p,omitempty"`
	Limit   int    `msgpack:"l,omitempty"`
	Session uint64 `msgpack:"sid,omitempty"`
	Start   int    `msgpack:"start,omitempty"`
	End     int    `msgpack:"end,omitempty"`
	Text    string `msgpack:"text,omitempty"`
	Caret   *int   `msgpack:"caret,omitempty"`
	Key     string `msgpack:"key,omitempty"`
	Index   int    `msgpack:"index,omitempty"`
}

// Actions understood by the server.
const (
	ActionTranslit    = "translit"
	ActionAttach      = "attach"
	ActionToken       = "token"
	ActionKey         = "key"
	ActionSelect      = "select"
	ActionDismiss     = "dismiss"
	ActionSuggestions = "suggestions"
	ActionDetach      = "detach"
	ActionHealth      = "health"
	ActionClear       = "clear"
)

// TranslitSuggestion - one ranked rendering
type TranslitSuggestion struct {
	Word  string  `msgpack:"w"`
	Rank  uint16  `msgpack:"r"`
	Score float64 `msgpack:"sc"`
}

// TranslitResponse answers a one-shot transliteration. TimeTaken is in
// microseconds.
type TranslitResponse struct {
	ID          string               `msgpack:"id"`
	Suggestions []TranslitSuggestion `msgpack:"s"`
	Count       int                  `msgpack:"c"`
	TimeTaken   int64                `msgpack:"t"`
	Source      string               `msgpack:"src"`
}

// SessionResponse acknowledges a session action.
type SessionResponse struct {
	ID          string   `msgpack:"id"`
	Status      string   `msgpack:"status"`
	Session     uint64   `msgpack:"sid"`
	Consumed    bool     `msgpack:"consumed,omitempty"`
	State       string   `msgpack:"state,omitempty"`
	Suggestions []string `msgpack:"s,omitempty"`
	Selected    int      `msgpack:"sel,omitempty"`
}

// HealthResponse reports liveness and engine counters.
type HealthResponse struct {
	ID       string         `msgpack:"id"`
	Status   string         `msgpack:"status"`
	Sessions int            `msgpack:"sessions"`
	Requests int64          `msgpack:"requests"`
	Stats    map[string]int `msgpack:"stats"`
}

// Pushed event names.
const (
	EventSuggest = "suggest"
	EventEdit    = "edit"
)

// SuggestEvent is pushed whenever a session's visible list changes.
type SuggestEvent struct {
	Event       string   `msgpack:"ev"`
	Session     uint64   `msgpack:"sid"`
	Token       string   `msgpack:"p"`
	Suggestions []string `msgpack:"s"`
	Selected    int      `msgpack:"sel"`
	Visible     bool     `msgpack:"v"`
}

// EditEvent is pushed when a suggestion is accepted. Offsets are runes.
type EditEvent struct {
	Event   string `msgpack:"ev"`
	Session uint64 `msgpack:"sid"`
	Start   int    `msgpack:"start"`
	End     int    `msgpack:"end"`
	Text    string `msgpack:"text"`
	Caret   int    `msgpack:"caret"`
}

// CompletionError holds basic error information for a request
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
