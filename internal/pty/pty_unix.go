//go:build !windows

package pty

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setupCommand makes the pty the child's controlling terminal so job
// control and signals behave like a real terminal.
func setupCommand(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setsid = true
	cmd.SysProcAttr.Setctty = true
}

func setNonblock(fd uintptr, on bool) error {
	return unix.SetNonblock(int(fd), on)
}

// setPixelSize reissues TIOCSWINSZ with the pixel dimensions filled in;
// xpty's resize only carries the cell counts.
func setPixelSize(fd uintptr, size Size) error {
	return unix.IoctlSetWinsize(int(fd), unix.TIOCSWINSZ, &unix.Winsize{
		Row:    uint16(size.Rows),
		Col:    uint16(size.Cols),
		Xpixel: uint16(size.XPixel),
		Ypixel: uint16(size.YPixel),
	})
}
