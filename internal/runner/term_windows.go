//go:build windows

package runner

import "golang.org/x/sys/windows"

var procGenerateConsoleCtrlEvent = windows.NewLazySystemDLL("kernel32.dll").NewProc("GenerateConsoleCtrlEvent")

// raiseInterrupt sends CTRL_C_EVENT to the current process group.
func raiseInterrupt() {
	_, _, _ = procGenerateConsoleCtrlEvent.Call(windows.CTRL_C_EVENT, 0)
}

// Console output processing is unaffected by raw input mode on Windows.
func enableOutputProcessing(int) {}
