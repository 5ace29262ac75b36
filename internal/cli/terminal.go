package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/tamilserve/pkg/session"
	"github.com/charmbracelet/log"
)

// SessionDemo drives a real editing session from line input, for watching
// debounce, selection and acceptance without an editor.
//
// Plain lines are appended to the buffer with the caret at the end. Lines
// starting with ':' are keys: ":down", ":up", ":enter", ":esc", ":space",
// ":1" to ":9". ":show" prints the buffer and ":reset" empties it.
type SessionDemo struct {
	manager *session.Manager
	id      session.ID
	wait    time.Duration

	mu      sync.Mutex
	buffer  []rune
	renders chan session.Snapshot
}

// NewSessionDemo attaches a session to manager. wait bounds how long a line
// waits for suggestions to arrive.
func NewSessionDemo(manager *session.Manager, wait time.Duration) *SessionDemo {
	d := &SessionDemo{
		manager: manager,
		wait:    wait,
		renders: make(chan session.Snapshot, 8),
	}
	d.id = manager.Attach(d)
	return d
}

// Replace applies an accepted suggestion to the demo buffer.
func (d *SessionDemo) Replace(edit session.Edit) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if edit.Start < 0 || edit.End > len(d.buffer) || edit.Start > edit.End {
		log.Errorf("Edit out of range: %+v", edit)
		return
	}
	next := make([]rune, 0, len(d.buffer)+utf8.RuneCountInString(edit.Text))
	next = append(next, d.buffer[:edit.Start]...)
	next = append(next, []rune(edit.Text)...)
	next = append(next, d.buffer[edit.End:]...)
	d.buffer = next
}

// Render queues a snapshot for printing.
func (d *SessionDemo) Render(snap session.Snapshot) {
	select {
	case d.renders <- snap:
	default:
	}
}

// Buffer returns the current text.
func (d *SessionDemo) Buffer() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return string(d.buffer)
}

// Start runs the demo loop until in reaches EOF, then detaches.
func (d *SessionDemo) Start(in io.Reader) error {
	defer d.manager.Detach(d.id)

	log.Print("tamilserve session demo [BETA]")
	log.Print("type text and press Enter; keys: :down :up :enter :esc :space :1-:9 :show :reset")
	reader := bufio.NewReader(in)
	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if line = strings.TrimRight(line, "\r\n"); line != "" {
			d.handleLine(line)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (d *SessionDemo) handleLine(line string) {
	if !strings.HasPrefix(line, ":") {
		d.typeText(line)
		if snap, err := d.manager.Snapshot(d.id); err == nil && snap.State == session.Idle {
			return
		}
		d.awaitRender()
		return
	}

	switch cmd := strings.TrimPrefix(line, ":"); cmd {
	case "show":
		log.Printf("buffer: %q", d.Buffer())
	case "reset":
		d.mu.Lock()
		d.buffer = nil
		d.mu.Unlock()
		_ = d.manager.Dismiss(d.id)
	default:
		key := cmd
		if key == "esc" {
			key = session.KeyEscape
		}
		consumed, err := d.manager.HandleKey(d.id, key)
		if err != nil {
			log.Errorf("Key %s: %v", key, err)
			return
		}
		if !consumed && key == session.KeySpace {
			d.typeText(" ")
		}
		if !consumed && key != session.KeySpace {
			log.Printf("key '%s' passed through", key)
		}
		d.drainRenders()
		log.Printf("buffer: %q", d.Buffer())
	}
}

// typeText appends text and reports the new caret position.
func (d *SessionDemo) typeText(text string) {
	d.mu.Lock()
	d.buffer = append(d.buffer, []rune(text)...)
	buf, caret := string(d.buffer), len(d.buffer)
	d.mu.Unlock()

	if err := d.manager.BufferChanged(d.id, buf, caret); err != nil {
		log.Errorf("Buffer update: %v", err)
	}
}

func (d *SessionDemo) awaitRender() {
	select {
	case snap := <-d.renders:
		printSnapshot(snap)
	case <-time.After(d.wait):
		log.Debug("No suggestions")
	}
}

func (d *SessionDemo) drainRenders() {
	for {
		select {
		case snap := <-d.renders:
			printSnapshot(snap)
		default:
			return
		}
	}
}

func printSnapshot(snap session.Snapshot) {
	if !snap.Visible {
		log.Print(dimStyle.Render("(suggestions hidden)"))
		return
	}
	log.Printf("'%s':", snap.Token)
	for i, word := range snap.Suggestions {
		label := fmt.Sprintf("%d. %s", i+1, word)
		if i == snap.Selected {
			log.Print(selectedStyle.Render(label))
		} else {
			log.Print(wordStyle.Render(label))
		}
	}
}
