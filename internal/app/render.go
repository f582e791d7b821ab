package app

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/gridterm/gridterm/internal/vt"
)

var statusBarStyle = lipgloss.NewStyle().
	Background(lipgloss.Color("236")).
	Foreground(lipgloss.Color("252"))

// View renders the visible grid plus the status bar.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width < 1 || m.height < 1+statusBarHeight {
		view.SetContent("")
		return view
	}

	var b strings.Builder
	for _, line := range m.visibleLines() {
		b.WriteString(renderLine(line))
		b.WriteByte('\n')
	}
	b.WriteString(m.renderStatusBar())
	view.SetContent(b.String())

	// The real cursor only makes sense on the live grid.
	if m.scrollOffset == 0 && !m.quitting {
		cur := m.term.Cursor()
		view.Cursor = tea.NewCursor(cur.Col, cur.Row)
	}

	return view
}

// visibleLines returns the grid rows, shifted back into scrollback by
// the current scroll offset.
func (m *Model) visibleLines() []vt.Line {
	rows := m.term.Grid()
	if m.scrollOffset == 0 {
		return rows
	}

	combined := make([]vt.Line, 0, m.term.ScrollbackLen()+len(rows))
	combined = append(combined, m.term.Scrollback()...)
	combined = append(combined, rows...)

	end := len(combined) - m.scrollOffset
	start := end - len(rows)
	if start < 0 {
		start = 0
		end = len(rows)
	}
	return combined[start:end]
}

// renderLine converts one row of cells into a styled string, batching
// consecutive cells that share a style into a single render call.
func renderLine(line vt.Line) string {
	var b strings.Builder
	var run strings.Builder
	var cur vt.Cell

	flush := func() {
		if run.Len() == 0 {
			return
		}
		b.WriteString(cellStyle(cur).Render(run.String()))
		run.Reset()
	}

	for i, cell := range line {
		if i == 0 || !sameStyle(cell, cur) {
			flush()
			cur = cell
		}
		run.WriteString(cellText(cell))
	}
	flush()
	return b.String()
}

func cellText(c vt.Cell) string {
	if c.Content == "" || c.Attrs.Hidden {
		return " "
	}
	return c.Content
}

func sameStyle(a, b vt.Cell) bool {
	return a.FG == b.FG && a.BG == b.BG && a.Attrs == b.Attrs
}

func cellStyle(c vt.Cell) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(c.FG).Background(c.BG)
	if c.Attrs.Bold {
		style = style.Bold(true)
	}
	if c.Attrs.Dim {
		style = style.Faint(true)
	}
	if c.Attrs.Italic {
		style = style.Italic(true)
	}
	if c.Attrs.Underline {
		style = style.Underline(true)
	}
	if c.Attrs.Blink {
		style = style.Blink(true)
	}
	if c.Attrs.Inverse {
		style = style.Reverse(true)
	}
	if c.Attrs.Strikethrough {
		style = style.Strikethrough(true)
	}
	return style
}

// renderStatusBar builds the single-line bar below the grid: title on
// the left, health and scroll state on the right.
func (m *Model) renderStatusBar() string {
	title := m.title
	if title == "" {
		title = "gridterm"
	}

	var right []string
	if time.Now().Before(m.bellUntil) {
		right = append(right, "BEL")
	}
	if m.scrollOffset > 0 {
		right = append(right, fmt.Sprintf("[%d/%d]", m.scrollOffset, m.term.ScrollbackLen()))
	}
	if m.health != vt.HealthHealthy {
		right = append(right, m.health.String())
	}
	rightText := strings.Join(right, " ")

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(rightText)
	if gap < 1 {
		// Title wins when space runs out.
		return statusBarStyle.MaxWidth(m.width).Render(title)
	}
	return statusBarStyle.Render(title + strings.Repeat(" ", gap) + rightText)
}
