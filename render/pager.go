package render

import (
	tea "github.com/charmbracelet/bubbletea"
)

// pageWidth is the number of tab columns shown per screen.
const pageWidth = 100

// Pager is a bubbletea.Model that scrolls horizontally through a rendered
// tab's ASCII lines, adapted from ako-backing-tracks/display/tui.go's
// TUIModel Update/View pattern, trimmed to the single responsibility of
// paging static output (no live playback).
type Pager struct {
	lines  []string
	offset int
	width  int
}

// NewPager builds a Pager over already-rendered ASCII tab lines.
func NewPager(lines []string) *Pager {
	return &Pager{lines: lines, width: pageWidth}
}

func (p *Pager) Init() tea.Cmd {
	return nil
}

func (p *Pager) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return p, tea.Quit
		case "left":
			p.offset -= p.width
			if p.offset < 0 {
				p.offset = 0
			}
		case "right":
			if p.offset+p.width < p.maxLineLen() {
				p.offset += p.width
			}
		}
	case tea.WindowSizeMsg:
		if msg.Width > 10 {
			p.width = msg.Width - 4
		}
	}
	return p, nil
}

func (p *Pager) View() string {
	window := make([]string, len(p.lines))
	for i, line := range p.lines {
		end := p.offset + p.width
		if end > len(line) {
			end = len(line)
		}
		start := p.offset
		if start > len(line) {
			start = len(line)
		}
		window[i] = line[start:end]
	}
	return Preview(window) + "\n[left/right to scroll, q to quit]\n"
}

func (p *Pager) maxLineLen() int {
	max := 0
	for _, l := range p.lines {
		if len(l) > max {
			max = len(l)
		}
	}
	return max
}
