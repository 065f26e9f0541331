// Package window implements the content window. It runs in a child process
// of the agent so the window toolkit owns that process's main thread while
// the tray owns the agent's. The parent drives the child through line
// commands on its stdin.
package window

import (
	"bufio"
	"io"
	"strings"
)

// Commands understood by the child process.
const (
	CmdFocus = "focus"
	CmdClose = "close"
)

// readCommands calls handle for every non-empty line of r until EOF or a
// read error.
func readCommands(r io.Reader, handle func(cmd string)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		if cmd == "" {
			continue
		}
		handle(cmd)
	}
	return scanner.Err()
}
