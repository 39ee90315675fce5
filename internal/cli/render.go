package cli

import (
	"fmt"
	"sort"

	"github.com/bastiangx/reelserve/internal/utils"
	"github.com/bastiangx/reelserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
)

var (
	badgeStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.AdaptiveColor{Light: "#faf4ed", Dark: "#191724"})
	titleBadge    = badgeStyle.Background(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	locationBadge = badgeStyle.Background(lipgloss.AdaptiveColor{Light: "#d7827e", Dark: "#ebbcba"})
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
)

func badge(o suggest.Origin) string {
	switch o {
	case suggest.OriginTitle:
		return titleBadge.Render("title")
	case suggest.OriginLocation:
		return locationBadge.Render("place")
	default:
		return badgeStyle.Render(string(o))
	}
}

func formatSuggestion(i int, s suggest.Suggestion) string {
	return fmt.Sprintf("%2d. %s %s", i+1, badge(s.Origin), valueStyle.Render(s.Value))
}

// formatStats renders stats one per line, sorted by key.
func formatStats(stats map[string]int) []string {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%-16s %10s", k, utils.FormatWithCommas(stats[k])))
	}
	return lines
}
