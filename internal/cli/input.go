// Package cli handles cmd line input and result display for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bertonantho/Names-sub000/internal/logger"
	"github.com/bertonantho/Names-sub000/internal/utils"
	"github.com/bertonantho/Names-sub000/pkg/corpus"
	"github.com/bertonantho/Names-sub000/pkg/search"
)

// InputHandler processes user input from stdin and prints ranked name
// results. Input lines are free-text name queries, optionally prefixed with
// a sex filter ("f:" or "m:").
type InputHandler struct {
	engine       *search.Engine
	out          *log.Logger
	sortBy       search.SortKey
	resultLimit  int
	maxQueryLen  int
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(engine *search.Engine, sortBy search.SortKey, limit, maxQueryLen int) *InputHandler {
	return &InputHandler{
		engine:      engine,
		out:         logger.Default(""),
		sortBy:      sortBy,
		resultLimit: limit,
		maxQueryLen: maxQueryLen,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	h.out.Print("Name search CLI")
	reader := bufio.NewReader(os.Stdin)
	h.out.Print("type a name fragment and press Enter (prefix with f: or m: to filter, Ctrl+C to exit):")

	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput processes a single query line, runs the search, and prints the
// ranked results with formatted birth counts.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	var sex corpus.Sex
	text := line
	if len(line) > 2 && line[1] == ':' {
		if parsed, ok := corpus.ParseSex(line[:1]); ok {
			sex = parsed
			text = strings.TrimSpace(line[2:])
		}
	}

	if len(text) > h.maxQueryLen {
		log.Errorf("Query too long: %s", text)
		return
	}

	start := time.Now()
	results := h.engine.Search(search.Query{
		Text:   text,
		Sex:    sex,
		SortBy: h.sortBy,
		Limit:  h.resultLimit,
	})
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for query '%s'", elapsed, text)

	if len(results) == 0 {
		log.Warnf("No names found for query: '%s'", text)
		return
	}

	latest := h.engine.LatestYear()
	h.out.Printf("Found %d names for query '%s':", len(results), text)
	for i, r := range results {
		recent := utils.FormatWithCommas(r.RecentCount(latest))
		total := utils.FormatWithCommas(r.TotalBirths())
		clName := fmt.Sprintf("\033[38;5;75m%s\033[0m", r.Name)
		h.out.Printf("%2d. %-30s %s (%d: %8s, total: %10s)", i+1, clName, r.Sex, latest, recent, total)
	}
}
