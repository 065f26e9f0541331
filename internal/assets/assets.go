// Package assets embeds the application icon used by the tray and the
// content window.
package assets

import (
	_ "embed"
	"runtime"
)

//go:embed icon.png
var iconPNG []byte

//go:embed icon.ico
var iconICO []byte

// IconPNG returns the icon encoded as PNG.
func IconPNG() []byte {
	return iconPNG
}

// TrayIcon returns the icon in the format the platform tray expects:
// ICO on Windows, PNG everywhere else.
func TrayIcon() []byte {
	if runtime.GOOS == "windows" {
		return iconICO
	}
	return iconPNG
}
