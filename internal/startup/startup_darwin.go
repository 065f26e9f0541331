//go:build darwin

package startup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"howett.net/plist"
)

// launchAgent is the subset of launchd.plist(5) the agent needs.
type launchAgent struct {
	Label            string   `plist:"Label"`
	ProgramArguments []string `plist:"ProgramArguments"`
	RunAtLoad        bool     `plist:"RunAtLoad"`
	ProcessType      string   `plist:"ProcessType,omitempty"`
}

type launchAgentRegistrar struct {
	label string
}

// New returns the registrar for bundleID: a LaunchAgent in
// ~/Library/LaunchAgents.
func New(_, bundleID string) Registrar {
	return &launchAgentRegistrar{label: bundleID}
}

func launchAgentsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, "Library", "LaunchAgents"), nil
}

func (r *launchAgentRegistrar) path() (string, error) {
	dir, err := launchAgentsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, r.label+".plist"), nil
}

func (r *launchAgentRegistrar) Enable(exePath string) error {
	agent := launchAgent{
		Label:            r.label,
		ProgramArguments: []string{exePath},
		RunAtLoad:        true,
		ProcessType:      "Interactive",
	}

	var buf bytes.Buffer
	enc := plist.NewEncoder(&buf)
	enc.Indent("\t")
	if err := enc.Encode(agent); err != nil {
		return fmt.Errorf("encode launch agent: %w", err)
	}

	path, err := r.path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func (r *launchAgentRegistrar) Disable() error {
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

func (r *launchAgentRegistrar) IsEnabled() (bool, error) {
	path, err := r.path()
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var agent launchAgent
	if _, err := plist.Unmarshal(data, &agent); err != nil {
		return false, fmt.Errorf("decode launch agent: %w", err)
	}
	return agent.RunAtLoad && len(agent.ProgramArguments) > 0, nil
}

func (r *launchAgentRegistrar) WatchPaths() []string {
	dir, err := launchAgentsDir()
	if err != nil {
		return nil
	}
	return []string{dir}
}
