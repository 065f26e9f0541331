package window

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jqntn/timetracker/internal/updater"
)

const helperEnv = "TIMETRACKER_WINDOW_HELPER"

// TestHelperProcess stands in for the window process. It echoes every
// command it receives and exits on CmdClose or EOF.
func TestHelperProcess(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		return
	}
	_ = readCommands(os.Stdin, func(cmd string) {
		fmt.Println(cmd)
		if cmd == CmdClose {
			os.Exit(0)
		}
	})
	os.Exit(0)
}

func helperLauncher(t *testing.T, out io.Writer) *Launcher {
	t.Helper()
	t.Setenv(helperEnv, "1")
	return &Launcher{
		Exe:    os.Args[0],
		Args:   []string{"-test.run=^TestHelperProcess$"},
		Stderr: out,
	}
}

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(10 * time.Second):
		t.Fatal("onClosed was not called")
	}
}

func TestReadCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "focus\n", []string{"focus"}},
		{"no trailing newline", "focus\nclose", []string{"focus", "close"}},
		{"blank lines and spaces", "\n  focus \r\n\n close\n", []string{"focus", "close"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			err := readCommands(strings.NewReader(tt.input), func(cmd string) {
				got = append(got, cmd)
			})
			if err != nil {
				t.Fatalf("readCommands() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("commands = %q, want %q", got, tt.want)
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestReadCommandsReportsReadError(t *testing.T) {
	called := false
	err := readCommands(failingReader{}, func(string) { called = true })
	if err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Error("handler should not run")
	}
}

func TestProcessSendsCommands(t *testing.T) {
	var out bytes.Buffer
	closed := make(chan struct{})

	p, err := helperLauncher(t, &out).Open(func() { close(closed) })
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if p.Pid() <= 0 {
		t.Errorf("Pid() = %d", p.Pid())
	}
	if err := p.BringToFront(); err != nil {
		t.Fatalf("BringToFront() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	waitClosed(t, closed)

	var got []string
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		got = append(got, scanner.Text())
	}
	want := []string{CmdFocus, CmdClose}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("child received %q, want %q", got, want)
	}
}

func TestProcessExitsWhenPipeCloses(t *testing.T) {
	closed := make(chan struct{})
	p, err := helperLauncher(t, io.Discard).Open(func() { close(closed) })
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := p.stdin.Close(); err != nil {
		t.Fatalf("close stdin: %v", err)
	}
	waitClosed(t, closed)

	if err := p.BringToFront(); err == nil {
		t.Error("BringToFront() after exit should fail")
	}
}

func TestOpenMissingExecutable(t *testing.T) {
	l := &Launcher{Exe: "/nonexistent/timetracker", Stderr: io.Discard}
	called := false
	if _, err := l.Open(func() { called = true }); err == nil {
		t.Fatal("expected error")
	}
	if called {
		t.Error("onClosed should not run when the process never started")
	}
}

func copyExecutable(t *testing.T, dst string) {
	t.Helper()
	data, err := os.ReadFile(os.Args[0])
	if err != nil {
		t.Fatalf("read test binary: %v", err)
	}
	if err := os.WriteFile(dst, data, 0755); err != nil {
		t.Fatalf("write %s: %v", dst, err)
	}
}

// The agent keeps the path it started from; after an in-place update that
// path holds the new binary and windows must still open from it.
func TestLauncherAfterBinaryReplaced(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "timetracker")
	next := filepath.Join(dir, "timetracker-next")
	copyExecutable(t, exe)
	copyExecutable(t, next)

	l := helperLauncher(t, io.Discard)
	l.Exe = exe

	if err := updater.ReplaceBinary(exe, next); err != nil {
		t.Fatalf("ReplaceBinary() error = %v", err)
	}
	if _, err := os.Stat(exe + ".bak"); !os.IsNotExist(err) {
		t.Errorf("backup still present: %v", err)
	}

	closed := make(chan struct{})
	p, err := l.Open(func() { close(closed) })
	if err != nil {
		t.Fatalf("Open() after update error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	waitClosed(t, closed)
}
