//go:build windows

package pty

import "os/exec"

func setupCommand(*exec.Cmd) {}

// ConPTY handles are not plain descriptors; non-blocking mode and pixel
// sizing are POSIX-only niceties.
func setNonblock(uintptr, bool) error { return nil }

func setPixelSize(uintptr, Size) error { return nil }
