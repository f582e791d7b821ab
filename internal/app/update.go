package app

import (
	"encoding/base64"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/gridterm/gridterm/internal/config"
	"github.com/gridterm/gridterm/internal/pty"
	"github.com/gridterm/gridterm/internal/vt"
)

// PTYOutputMsg carries a chunk of raw bytes read from the child process.
type PTYOutputMsg []byte

// PTYExitMsg signals that the child process has exited.
type PTYExitMsg struct {
	Err error
}

// bellClearMsg turns the bell indicator off after a short flash.
type bellClearMsg struct{}

// bellFlashDuration is how long the status bar shows the bell indicator.
const bellFlashDuration = 300 * time.Millisecond

// listenForOutput creates a command that waits for the next PTY chunk.
func listenForOutput(output chan []byte) tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-output
		if !ok {
			// Channel closed, the exit listener takes over.
			return nil
		}
		return PTYOutputMsg(chunk)
	}
}

// listenForExit creates a command that waits for the child to exit.
func listenForExit(exited chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-exited
		if !ok {
			return nil
		}
		return PTYExitMsg{Err: err}
	}
}

// handleEvent is the emulator's event sink. It runs synchronously inside
// SafeProcess on the Update goroutine, so it may touch model state freely.
func (m *Model) handleEvent(ev vt.Event) {
	switch ev := ev.(type) {
	case vt.TitleEvent:
		m.title = ev.Title
	case vt.BellEvent:
		m.bellUntil = time.Now().Add(bellFlashDuration)
		m.eventCmds = append(m.eventCmds, tea.Tick(bellFlashDuration, func(time.Time) tea.Msg {
			return bellClearMsg{}
		}))
	case vt.ClipboardCopyEvent:
		m.eventCmds = append(m.eventCmds, tea.SetClipboard(ev.Text))
	case vt.ClipboardPasteEvent:
		m.eventCmds = append(m.eventCmds, tea.ReadClipboard)
	}
	// CursorEvent, ColorEvent, and RedrawEvent need no action here:
	// bubbletea re-renders after every Update, reading the grid directly.
}

// Update handles all messages. Only this method calls into the emulator.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PTYOutputMsg:
		m.health = m.term.SafeProcess([]byte(msg))
		cmds := append(m.takeEventCmds(), listenForOutput(m.output))
		return m, tea.Batch(cmds...)

	case PTYExitMsg:
		if msg.Err != nil {
			m.logf("app: child exited: %v", msg.Err)
		}
		m.quitting = true
		// Output chunks may still be queued behind the exit signal; give
		// them a moment to drain so the final frame is complete.
		return m, tea.Tick(config.ProcessWaitDelay, func(time.Time) tea.Msg {
			return tea.QuitMsg{}
		})

	case bellClearMsg:
		return m, nil

	case tea.WindowSizeMsg:
		return m, m.resize(msg.Width, msg.Height)

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)

	case tea.PasteMsg:
		m.scrollOffset = 0
		m.send([]byte(msg.Content))
		return m, nil

	case tea.ClipboardMsg:
		// Response to a child OSC 52 paste request: forward the host
		// clipboard back down the wire in the same encoding.
		payload := base64.StdEncoding.EncodeToString([]byte(msg.Content))
		m.send([]byte("\x1b]52;c;" + payload + "\x07"))
		return m, nil
	}

	return m, nil
}

// resize adjusts the emulator and then the PTY. The emulator goes first
// so that by the time the child reacts to SIGWINCH and redraws, the grid
// already has the new shape.
func (m *Model) resize(width, height int) tea.Cmd {
	if width < 1 || height < 1+statusBarHeight {
		return nil
	}
	m.width = width
	m.height = height

	rows := height - statusBarHeight
	m.term.Resize(vt.Size{Rows: rows, Cols: width})
	if err := m.handle.Resize(pty.Size{Rows: rows, Cols: width}); err != nil {
		m.logf("app: pty resize: %v", err)
	}
	m.scrollOffset = m.clampScroll(m.scrollOffset)
	return nil
}

// handleKey routes viewer keys and forwards everything else to the child.
func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "shift+pgup":
		m.scrollOffset = m.clampScroll(m.scrollOffset + m.pageSize())
		return nil
	case "shift+pgdown":
		m.scrollOffset = m.clampScroll(m.scrollOffset - m.pageSize())
		return nil
	case "shift+home":
		m.scrollOffset = m.clampScroll(m.term.ScrollbackLen())
		return nil
	case "shift+end":
		m.scrollOffset = 0
		return nil
	}

	raw := keyBytes(msg)
	if len(raw) == 0 {
		return nil
	}
	// Typing snaps the view back to the live grid.
	m.scrollOffset = 0
	m.send(raw)
	return nil
}

// send writes bytes to the child, logging failures instead of crashing
// the viewer. A dead PTY surfaces through the exit listener anyway.
func (m *Model) send(b []byte) {
	if _, err := m.handle.Write(b); err != nil {
		m.logf("app: pty write: %v", err)
	}
}

func (m *Model) takeEventCmds() []tea.Cmd {
	cmds := m.eventCmds
	m.eventCmds = nil
	return cmds
}

func (m *Model) pageSize() int {
	rows := m.height - statusBarHeight
	if rows < 1 {
		return 1
	}
	return rows
}

func (m *Model) clampScroll(offset int) int {
	if offset < 0 {
		return 0
	}
	if n := m.term.ScrollbackLen(); offset > n {
		return n
	}
	return offset
}

func (m *Model) logf(format string, v ...any) {
	if m.logger != nil {
		m.logger.Printf(format, v...)
	}
}
