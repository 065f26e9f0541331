package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jqntn/timetracker/internal/buildinfo"
	"github.com/jqntn/timetracker/internal/config"
	"github.com/jqntn/timetracker/internal/settings"
	"github.com/jqntn/timetracker/internal/singleton"
	"github.com/jqntn/timetracker/internal/startup"
	"github.com/jqntn/timetracker/internal/tray"
	"github.com/jqntn/timetracker/internal/updater"
	"github.com/jqntn/timetracker/internal/window"
)

// menuRefreshInterval re-syncs the menu check marks with stores that cannot
// be watched (the Windows registry).
const menuRefreshInterval = time.Minute

// agentEnv holds the collaborators the agent is assembled from.
type agentEnv struct {
	Acquire      func() (release func(), err error)
	SetupLogging func() (closeLog func(), err error)
	OpenStore    func() (settings.Store, error)
	Registrar    startup.Registrar
	// Executable is called once, before any update can replace the binary.
	Executable func() (string, error)
	NewUpdater func(exe string) tray.Updater
	NewOpener  func(exe string) tray.WindowOpener
	RunTray    func(ctx context.Context, c *tray.Coordinator, opts tray.RunOptions)
}

func defaultAgentEnv() agentEnv {
	return agentEnv{
		Acquire: func() (func(), error) {
			lock, err := singleton.Acquire(config.AppName)
			if err != nil {
				return nil, err
			}
			return lock.Release, nil
		},
		SetupLogging: func() (func(), error) {
			f, err := config.SetupLogging(config.AppName)
			if err != nil {
				return nil, err
			}
			return func() { f.Close() }, nil
		},
		OpenStore:  settings.Open,
		Registrar:  startup.New(config.AppName, config.BundleID),
		Executable: startup.Executable,
		NewUpdater: func(exe string) tray.Updater {
			u := updater.New(userAgent())
			u.ExePath = exe
			return u
		},
		NewOpener: func(exe string) tray.WindowOpener {
			launcher := &window.Launcher{Exe: exe}
			return tray.OpenerFunc(func(onClosed func()) (tray.Window, error) {
				p, err := launcher.Open(onClosed)
				if err != nil {
					return nil, err
				}
				return p, nil
			})
		},
		RunTray: tray.Run,
	}
}

// runAgent is the default command: the tray agent.
func runAgent(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return startAgent(ctx, defaultAgentEnv())
}

// startAgent runs the agent until the tray exits.
func startAgent(ctx context.Context, env agentEnv) error {
	// Refuse to start before anything visible exists.
	release, err := env.Acquire()
	if err != nil {
		return err
	}
	defer release()

	closeLog, err := env.SetupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := env.OpenStore()
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}

	// An update renames the running binary away; keep using the path it
	// was started from.
	exe, err := env.Executable()
	if err != nil {
		return err
	}

	c := tray.New(tray.Options{
		Store:      store,
		Registrar:  env.Registrar,
		Updater:    env.NewUpdater(exe),
		Opener:     env.NewOpener(exe),
		Repo:       releaseRepo(),
		Version:    buildinfo.Version,
		Executable: func() (string, error) { return exe, nil },
	})

	log.Printf("Agent %s started (PID %d)", buildinfo.Version, os.Getpid())

	if err := c.Bootstrap(); err != nil {
		log.Printf("[tray] First-run setup incomplete: %v", err)
	}
	if err := c.AutoUpdate(ctx); err != nil {
		log.Printf("[update] %v", err)
	}

	// Blocks the main goroutine until Exit or a signal.
	env.RunTray(ctx, c, tray.RunOptions{
		Tooltip:      config.AppName,
		WatchPaths:   watchPaths(store, env.Registrar),
		RefreshEvery: menuRefreshInterval,
	})

	log.Println("Agent stopped")
	return nil
}

func watchPaths(store settings.Store, registrar startup.Registrar) []string {
	var paths []string
	if w, ok := store.(settings.Watchable); ok {
		paths = append(paths, w.WatchPaths()...)
	}
	return append(paths, registrar.WatchPaths()...)
}

func releaseRepo() updater.Repo {
	return updater.Repo{
		Owner: config.RepoOwner,
		Name:  config.RepoName,
		Bin:   config.AppName,
	}
}

func userAgent() string {
	return config.AppName + "/" + buildinfo.Version
}
