//go:build !windows && !darwin

package startup

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type xdgRegistrar struct {
	name string
}

// New returns the registrar for appName: an XDG autostart desktop entry.
func New(appName, _ string) Registrar {
	return &xdgRegistrar{name: appName}
}

func autostartDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "autostart"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "autostart"), nil
}

func (r *xdgRegistrar) path() (string, error) {
	dir, err := autostartDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, r.name+".desktop"), nil
}

func (r *xdgRegistrar) Enable(exePath string) error {
	path, err := r.path()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "[Desktop Entry]")
	fmt.Fprintln(&buf, "Type=Application")
	fmt.Fprintf(&buf, "Name=%s\n", r.name)
	fmt.Fprintf(&buf, "Exec=%s\n", quoteExec(exePath))
	fmt.Fprintln(&buf, "Terminal=false")
	fmt.Fprintln(&buf, "X-GNOME-Autostart-enabled=true")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func (r *xdgRegistrar) Disable() error {
	path, err := r.path()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsEnabled reports whether the desktop entry exists and is not switched off
// through Hidden=true or X-GNOME-Autostart-enabled=false.
func (r *xdgRegistrar) IsEnabled() (bool, error) {
	path, err := r.path()
	if err != nil {
		return false, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	enabled := true
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "Hidden":
			if strings.EqualFold(value, "true") {
				enabled = false
			}
		case "X-GNOME-Autostart-enabled":
			if strings.EqualFold(value, "false") {
				enabled = false
			}
		}
	}
	return enabled, scanner.Err()
}

func (r *xdgRegistrar) WatchPaths() []string {
	dir, err := autostartDir()
	if err != nil {
		return nil
	}
	return []string{dir}
}

// execReserved are the characters that force an Exec argument into quotes.
const execReserved = " \t\n\"'\\><~|&;$*?#()`"

// quoteExec encodes a path as the single argument of an Exec key. Values
// are string-unescaped before the quoting rules apply, so every backslash
// the quoting needs is written twice.
func quoteExec(path string) string {
	path = strings.ReplaceAll(path, "%", "%%")
	if !strings.ContainsAny(path, execReserved) {
		return path
	}
	r := strings.NewReplacer(`\`, `\\\\`, `"`, `\\"`, "`", "\\\\`", `$`, `\\$`)
	return `"` + r.Replace(path) + `"`
}
