// Package app implements the interactive terminal viewer: a bubbletea
// model that bridges a shell running on a PTY to the vt emulator and
// renders the emulator's grid to the host terminal.
package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/gridterm/gridterm/internal/config"
	"github.com/gridterm/gridterm/internal/pty"
	"github.com/gridterm/gridterm/internal/vt"
)

// statusBarHeight is the number of rows reserved below the grid.
const statusBarHeight = 1

// Model is the single-terminal viewer. All emulator access happens on
// the Update goroutine; the PTY reader only moves bytes over a channel.
type Model struct {
	term   *vt.Terminal
	handle *pty.Handle
	logger vt.Logger

	output chan []byte
	exited chan error

	// Host terminal dimensions, in cells.
	width  int
	height int

	title        string
	health       vt.Health
	bellUntil    time.Time
	scrollOffset int

	// Pending commands produced by emulator events during SafeProcess.
	// Drained at the end of Update.
	eventCmds []tea.Cmd

	quitting bool
}

// New creates a viewer for the given PTY handle. The emulator starts at
// the handle's size; a WindowSizeMsg from bubbletea adjusts it on startup.
func New(handle *pty.Handle, logger vt.Logger) *Model {
	m := &Model{
		handle: handle,
		logger: logger,
		output: make(chan []byte, 32),
		exited: make(chan error, 1),
		health: vt.HealthHealthy,
	}

	size := vt.Size{Rows: handle.Size().Rows, Cols: handle.Size().Cols}
	m.term = vt.New(size, m.handleEvent)
	m.term.SetLogger(logger)
	m.term.SetMaxErrors(config.MaxErrors)
	m.term.SetMaxScrollback(config.ScrollbackLines)
	return m
}

// Terminal exposes the emulator, for wiring theme colors before Run.
func (m *Model) Terminal() *vt.Terminal {
	return m.term
}

// Init starts the PTY reader and the channel listeners.
func (m *Model) Init() tea.Cmd {
	go m.readLoop()
	return tea.Batch(
		listenForOutput(m.output),
		listenForExit(m.exited),
	)
}

// readLoop pumps PTY output into the output channel. It runs off the
// Update goroutine and never touches the emulator.
func (m *Model) readLoop() {
	buf := make([]byte, config.PTYReadBufferSize)
	for {
		n, err := m.handle.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			m.output <- chunk
		}
		if err != nil {
			close(m.output)
			m.exited <- m.handle.Wait()
			return
		}
	}
}
