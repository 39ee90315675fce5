// Package cli handles cmd line input and suggestions for DBG and testing
package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/reelserve/internal/logger"
	"github.com/bastiangx/reelserve/internal/utils"
	"github.com/bastiangx/reelserve/pkg/suggest"
	"github.com/charmbracelet/log"
)

// Commands understood besides plain prefixes.
const (
	cmdStats   = ":stats"
	cmdRebuild = ":rebuild"
	cmdQuit    = ":q"
)

// InputHandler reads prefixes line by line and prints the merged
// suggestions for each one.
type InputHandler struct {
	completer       suggest.ICompleter
	source          suggest.Source
	minPrefixLength int
	maxPrefixLength int
	noFilter        bool
	requestCount    int
	in              io.Reader
	out             *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer suggest.ICompleter, src suggest.Source, minLength, maxLength int, noFilter bool) *InputHandler {
	return &InputHandler{
		completer:       completer,
		source:          src,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		noFilter:        noFilter,
		in:              os.Stdin,
		out:             logger.NewWithConfig(os.Stderr, "", log.GetLevel(), false, false, log.TextFormatter),
	}
}

// SetIO replaces stdin and the output stream.
func (h *InputHandler) SetIO(r io.Reader, w io.Writer) {
	h.in = r
	h.out = logger.NewWithConfig(w, "", log.GetLevel(), false, false, log.TextFormatter)
}

// Start begins the interface loop. It returns nil at end of input or on
// :q, and the read error otherwise.
func (h *InputHandler) Start(ctx context.Context) error {
	h.out.Print("ReelServe CLI [BETA]")
	h.out.Print("type a title or location prefix and press Enter (:stats, :rebuild, :q):")
	reader := bufio.NewReader(h.in)

	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return nil
			}
			return err
		}

		// Leading spaces are part of the prefix.
		prefix := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(prefix) == "" {
			continue
		}
		if !h.handleInput(ctx, prefix) {
			return nil
		}
	}
}

// handleInput processes one line. It returns false when the loop should stop.
func (h *InputHandler) handleInput(ctx context.Context, prefix string) bool {
	switch strings.TrimSpace(prefix) {
	case cmdQuit:
		return false
	case cmdStats:
		h.printStats()
		return true
	case cmdRebuild:
		h.rebuild(ctx)
		return true
	}

	h.requestCount++
	n := utils.RuneLen(prefix)
	if n < h.minPrefixLength {
		h.out.Errorf("Prefix too short: %q", prefix)
		return true
	}
	if n > h.maxPrefixLength {
		h.out.Errorf("Prefix too long: %q", prefix)
		return true
	}

	if !h.noFilter {
		if !utils.IsValidQuery(prefix) || utils.IsRepetitive(prefix) {
			h.out.Infof("No results found for prefix: %q", prefix)
			return true
		}
	} else {
		h.out.Debug("Input filtering disabled")
	}

	start := time.Now()
	suggestions := h.completer.Suggest(prefix)
	h.out.Debugf("Took [ %v ] for prefix %q", time.Since(start), prefix)

	if len(suggestions) == 0 {
		h.out.Warnf("No suggestions found for prefix: %q", prefix)
		return true
	}

	h.out.Printf("Found %d suggestions for prefix %q:", len(suggestions), prefix)
	for i, s := range suggestions {
		h.out.Print(formatSuggestion(i, s))
	}
	return true
}

func (h *InputHandler) printStats() {
	stats := h.completer.Stats()
	stats["cliRequests"] = h.requestCount
	for _, line := range formatStats(stats) {
		h.out.Print(line)
	}
}

func (h *InputHandler) rebuild(ctx context.Context) {
	if h.source == nil {
		h.out.Error("No source to rebuild from")
		return
	}
	if inv, ok := h.source.(interface{ Invalidate() }); ok {
		inv.Invalidate()
	}
	start := time.Now()
	if err := h.completer.RebuildFrom(ctx, h.source); err != nil {
		h.out.Errorf("Rebuild failed, keeping previous data: %v", err)
		return
	}
	h.out.Printf("Rebuilt %s records in %v",
		utils.FormatWithCommas(h.completer.Stats()["records"]), time.Since(start).Round(time.Millisecond))
}
