package window

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
)

// Subcommand is the hidden CLI subcommand that runs the window.
const Subcommand = "window"

// Launcher starts content-window processes.
type Launcher struct {
	// Exe is the binary to run. Empty means the running executable.
	Exe string
	// Args are passed to Exe. Nil means []string{Subcommand}.
	Args []string
	// Stderr receives the child's diagnostics. Nil means log.Writer().
	Stderr io.Writer
}

// Process is a running content window.
type Process struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	mu     sync.Mutex
	closed bool
}

// Open starts a window process. onClosed runs once, on a separate goroutine,
// after the process has exited for any reason.
func (l *Launcher) Open(onClosed func()) (*Process, error) {
	exe := l.Exe
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return nil, fmt.Errorf("find executable: %w", err)
		}
	}
	args := l.Args
	if args == nil {
		args = []string{Subcommand}
	}
	stderr := l.Stderr
	if stderr == nil {
		stderr = log.Writer()
	}

	cmd := exec.Command(exe, args...)
	cmd.Stdout = stderr
	cmd.Stderr = stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start window process: %w", err)
	}

	p := &Process{cmd: cmd, stdin: stdin}
	go func() {
		err := cmd.Wait()
		if err != nil {
			log.Printf("[window] process %d exited: %v", cmd.Process.Pid, err)
		}
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		if onClosed != nil {
			onClosed()
		}
	}()

	return p, nil
}

// Pid returns the process id of the window process.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// BringToFront asks the window to raise and focus itself.
func (p *Process) BringToFront() error {
	allowForeground(p.Pid())
	return p.send(CmdFocus)
}

// Close asks the window to close and releases the command pipe. The
// process exits on its own once it has handled the request.
func (p *Process) Close() error {
	err := p.send(CmdClose)
	if cerr := p.stdin.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) {
		err = errors.Join(err, cerr)
	}
	return err
}

func (p *Process) send(cmd string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("window process has exited")
	}
	if _, err := io.WriteString(p.stdin, cmd+"\n"); err != nil {
		return fmt.Errorf("send %s: %w", cmd, err)
	}
	return nil
}
