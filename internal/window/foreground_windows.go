//go:build windows

package window

import "golang.org/x/sys/windows"

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procAllowSetForegroundWindow = user32.NewProc("AllowSetForegroundWindow")
)

// allowForeground lets the window process take the foreground. Windows only
// grants SetForegroundWindow to the process that received the last input,
// which is the tray, not the window process.
func allowForeground(pid int) {
	_, _, _ = procAllowSetForegroundWindow.Call(uintptr(pid))
}
