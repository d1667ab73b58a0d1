//go:build windows

package main

import "syscall"

// manageConsole detaches from the console window unless keep is set, so a
// launch from a hotkey or Explorer does not leave one behind.
func manageConsole(keep bool) {
	if keep {
		return
	}
	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	freeConsole := kernel32.NewProc("FreeConsole")
	freeConsole.Call()
}
