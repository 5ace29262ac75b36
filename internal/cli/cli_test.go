package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/bastiangx/tamilserve/internal/logger"
	"github.com/bastiangx/tamilserve/pkg/session"
	"github.com/bastiangx/tamilserve/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleInput(t *testing.T) {
	engine := suggest.NewTransliterator(suggest.Options{})
	h := NewInputHandler(engine, 2, 20, 6, true, true)

	got := h.handleInput("Vanakkam")
	require.Len(t, got, 1)
	assert.Equal(t, "வணக்கம்", got[0].Word)

	got = h.handleInput("thendral")
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 6)

	assert.Nil(t, h.handleInput("k"))
	assert.Nil(t, h.handleInput("ka1"))
	assert.Nil(t, h.handleInput(strings.Repeat("a", 21)))
	assert.Equal(t, 5, h.requestCount)
}

func TestInputHandlerStart(t *testing.T) {
	engine := suggest.NewTransliterator(suggest.Options{})
	h := NewInputHandler(engine, 2, 20, 6, false, false)
	require.NoError(t, h.Start(strings.NewReader("amma appa\n\nkadal")))
	assert.Equal(t, 3, h.requestCount)
}

func newDemo(t *testing.T) *SessionDemo {
	t.Helper()
	engine := suggest.NewTransliterator(suggest.Options{})
	m := session.NewManager(engine, session.Options{
		Debounce: session.MinDebounce,
		Logger:   logger.Discard(),
	})
	t.Cleanup(m.Close)
	return NewSessionDemo(m, 2*time.Second)
}

func TestSessionDemoAccept(t *testing.T) {
	d := newDemo(t)
	require.NoError(t, d.Start(strings.NewReader("naan \nvanakkam\n:enter\n")))
	assert.Equal(t, "naan வணக்கம் ", d.Buffer())
}

func TestSessionDemoDismissKeepsText(t *testing.T) {
	d := newDemo(t)
	require.NoError(t, d.Start(strings.NewReader("kadal\n:esc\n")))
	assert.Equal(t, "kadal", d.Buffer())
}

func TestSessionDemoSpaceTypesSpace(t *testing.T) {
	d := newDemo(t)
	require.NoError(t, d.Start(strings.NewReader("kadal\n:space\n")))
	assert.Equal(t, "kadal ", d.Buffer())
}

func TestReplaceOutOfRangeIgnored(t *testing.T) {
	d := newDemo(t)
	d.typeText("ab")
	d.Replace(session.Edit{Start: 1, End: 9, Text: "x"})
	assert.Equal(t, "ab", d.Buffer())
}
