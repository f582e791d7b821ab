// Package pty wraps the OS pseudo-terminal behind the small surface the
// emulator's read loop needs: spawn, non-blocking read, write, resize, and
// descriptor access.
package pty

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/charmbracelet/x/xpty"
)

// Size is the terminal size handed to the kernel: cells plus the pixel
// dimensions some programs query for graphics placement.
type Size struct {
	Rows   int
	Cols   int
	XPixel int
	YPixel int
}

// Options configures Spawn.
type Options struct {
	// Program is the command to run. Empty means the detected shell.
	Program string
	// Args are extra arguments for Program.
	Args []string
	// Dir is the child's working directory. Empty inherits ours.
	Dir string
	// Env is appended to the inherited environment.
	Env []string
	// Size is the initial terminal size. Zero fields fall back to 80x24.
	Size Size
}

// Handle owns a running child process attached to a pseudo-terminal.
type Handle struct {
	pty  xpty.Pty
	cmd  *exec.Cmd
	size Size

	waitOnce sync.Once
	waitErr  error
}

// Spawn starts a child process on a fresh pseudo-terminal.
func Spawn(opts Options) (*Handle, error) {
	size := opts.Size
	if size.Cols < 1 {
		size.Cols = 80
	}
	if size.Rows < 1 {
		size.Rows = 24
	}

	program := opts.Program
	if program == "" {
		program = DetectShell("")
	}
	// #nosec G204 -- the program is the user's own shell or explicit choice.
	cmd := exec.Command(program, opts.Args...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), opts.Env...)

	p, err := xpty.NewPty(size.Cols, size.Rows)
	if err != nil {
		return nil, fmt.Errorf("allocate pty: %w", err)
	}
	setupCommand(cmd)
	if err := p.Start(cmd); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("start %s: %w", program, err)
	}

	h := &Handle{pty: p, cmd: cmd, size: size}
	// Some platforms only accept a resize once the child is running, and
	// the cell size is not expressible through xpty at all.
	_ = h.Resize(size)
	return h, nil
}

// Read reads available child output into p. With the descriptor in
// non-blocking mode it returns an EAGAIN-wrapped error when no data is
// pending.
func (h *Handle) Read(p []byte) (int, error) {
	return h.pty.Read(p)
}

// Write sends raw bytes to the child's input.
func (h *Handle) Write(p []byte) (int, error) {
	return h.pty.Write(p)
}

// Resize updates the kernel's view of the terminal size. The caller
// resizes the in-memory emulator first so the two never disagree.
func (h *Handle) Resize(size Size) error {
	if size.Cols < 1 || size.Rows < 1 {
		return fmt.Errorf("resize pty: invalid size %dx%d", size.Rows, size.Cols)
	}
	if err := h.pty.Resize(size.Cols, size.Rows); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	h.size = size
	if size.XPixel > 0 || size.YPixel > 0 {
		if err := setPixelSize(h.Fd(), size); err != nil {
			return fmt.Errorf("resize pty pixels: %w", err)
		}
	}
	return nil
}

// Size returns the last size successfully handed to the kernel.
func (h *Handle) Size() Size {
	return h.size
}

// Fd exposes the master descriptor so the caller can configure
// non-blocking mode or poll it.
func (h *Handle) Fd() uintptr {
	return h.pty.Fd()
}

// SetNonblocking toggles non-blocking mode on the master descriptor.
func (h *Handle) SetNonblocking(on bool) error {
	return setNonblock(h.Fd(), on)
}

// Pid returns the child's process id, or 0 before it started.
func (h *Handle) Pid() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

// Wait blocks until the child exits and reaps it. Safe to call more than
// once.
func (h *Handle) Wait() error {
	h.waitOnce.Do(func() {
		h.waitErr = h.cmd.Wait()
	})
	return h.waitErr
}

// Close terminates the child if it is still running and releases the
// pseudo-terminal.
func (h *Handle) Close() error {
	if h.cmd.Process != nil {
		_ = h.cmd.Process.Kill()
	}
	err := h.pty.Close()
	_ = h.Wait()
	return err
}

// DetectShell picks the shell to run: the preferred one when it exists,
// then $SHELL, then the first present platform default.
func DetectShell(preferred string) string {
	if preferred != "" {
		if _, err := os.Stat(preferred); err == nil {
			return preferred
		}
		if _, err := exec.LookPath(preferred); err == nil {
			return preferred
		}
		fmt.Fprintf(os.Stderr, "warning: configured shell %q not found, falling back\n", preferred)
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	if runtime.GOOS == "windows" {
		for _, shell := range []string{"pwsh.exe", "powershell.exe", "cmd.exe"} {
			if _, err := exec.LookPath(shell); err == nil {
				return shell
			}
		}
		return "cmd.exe"
	}
	for _, shell := range []string{"/bin/bash", "/bin/zsh", "/bin/fish", "/bin/sh"} {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}
	return "/bin/sh"
}
