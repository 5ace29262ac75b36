// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/tamilserve/internal/utils"
	"github.com/bastiangx/tamilserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	wordStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("75"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// InputHandler reads Latin words from stdin and prints the ranked Tamil
// renderings for each. It bypasses the cache, so repeated words show the
// generator's work every time.
type InputHandler struct {
	engine       suggest.ITransliterator
	minLength    int
	maxLength    int
	suggestLimit int
	showScores   bool
	showBaseline bool
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(engine suggest.ITransliterator, minLength, maxLength, limit int, showScores, showBaseline bool) *InputHandler {
	return &InputHandler{
		engine:       engine,
		minLength:    minLength,
		maxLength:    maxLength,
		suggestLimit: limit,
		showScores:   showScores,
		showBaseline: showBaseline,
	}
}

// Start begins the interface loop. It returns nil when in reaches EOF.
func (h *InputHandler) Start(in io.Reader) error {
	log.Print("tamilserve CLI [BETA]")
	log.Print("type a word in Latin letters and press Enter (Ctrl+C to exit):")
	reader := bufio.NewReader(in)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		for _, word := range strings.Fields(line) {
			h.handleInput(word)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// handleInput validates one word and prints its suggestions. The returned
// slice is what was printed.
func (h *InputHandler) handleInput(word string) []suggest.Suggestion {
	h.requestCount++
	token := utils.FoldToken(word)

	if len(token) < h.minLength {
		log.Errorf("Word too short: %s", word)
		return nil
	}
	if h.maxLength > 0 && len(token) > h.maxLength {
		log.Errorf("Word too long: %s", word)
		return nil
	}
	if !utils.IsLatinToken(token) {
		log.Warnf("Not a Latin word: '%s'", word)
		return nil
	}

	start := time.Now()
	suggestions := h.engine.Suggest(token, h.suggestLimit)
	log.Debugf("Took [ %v ] for '%s'", time.Since(start), token)

	if len(suggestions) == 0 {
		log.Warnf("No suggestions found for '%s'", token)
		return nil
	}

	if h.showBaseline {
		if b, ok := h.engine.(interface{ Baseline(string) string }); ok {
			log.Printf("baseline: %s", dimStyle.Render(b.Baseline(token)))
		}
	}
	log.Printf("Found %d suggestions for '%s':", len(suggestions), token)
	for i, s := range suggestions {
		line := fmt.Sprintf("%2d. %s", i+1, wordStyle.Render(s.Word))
		if h.showScores {
			line += dimStyle.Render(fmt.Sprintf("  (score: %.2f)", s.Score))
		}
		log.Print(line)
	}
	return suggestions
}
