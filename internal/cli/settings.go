package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jqntn/timetracker/internal/config"
	"github.com/jqntn/timetracker/internal/settings"
	"github.com/jqntn/timetracker/internal/startup"
)

var (
	settingsStartup    string
	settingsAutoUpdate string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
	Long: `Show the current preferences, or change them with flags:

  timetracker settings --startup off --auto-update on

Without flags in a terminal, an interactive form opens instead. A running
agent updates its menu check marks on its own.`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

func init() {
	settingsCmd.Flags().StringVar(&settingsStartup, "startup", "", "Run at startup (on|off)")
	settingsCmd.Flags().StringVar(&settingsAutoUpdate, "auto-update", "", "Install updates on launch (on|off)")
}

func runSettings(cmd *cobra.Command, args []string) error {
	store, err := settings.Open()
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}
	registrar := startup.New(config.AppName, config.BundleID)

	flagsSet := cmd.Flags().Changed("auto-update") || cmd.Flags().Changed("startup")
	if !flagsSet && isInteractive() {
		if err := editSettings(store, registrar); err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("auto-update") {
		on, err := parseSwitch(settingsAutoUpdate)
		if err != nil {
			return fmt.Errorf("--auto-update: %w", err)
		}
		if err := store.Set(settings.KeyAutoUpdate, settings.FromBool(on)); err != nil {
			return fmt.Errorf("failed to save auto update: %w", err)
		}
	}

	if cmd.Flags().Changed("startup") {
		on, err := parseSwitch(settingsStartup)
		if err != nil {
			return fmt.Errorf("--startup: %w", err)
		}
		if err := setStartup(registrar, on); err != nil {
			return err
		}
	}

	startupOn, err := registrar.IsEnabled()
	if err != nil {
		return fmt.Errorf("failed to read startup registration: %w", err)
	}

	fmt.Printf("  %s\n", styleBrand.Render("Preferences"))
	fmt.Printf("    %s  %s\n", styleLabel.Render("Run at startup"), formatSwitch(startupOn))
	fmt.Printf("    %s     %s\n", styleLabel.Render("Auto update"), formatSwitch(settings.Enabled(store, settings.KeyAutoUpdate)))
	if loc, ok := store.(fmt.Stringer); ok {
		fmt.Printf("    %s           %s\n", styleLabel.Render("Store"), styleValue.Render(loc.String()))
	}
	return nil
}

func setStartup(registrar startup.Registrar, on bool) error {
	if !on {
		if err := registrar.Disable(); err != nil {
			return fmt.Errorf("failed to disable run at startup: %w", err)
		}
		return nil
	}

	exe, err := startup.Executable()
	if err != nil {
		return err
	}
	if err := registrar.Enable(exe); err != nil {
		return fmt.Errorf("failed to enable run at startup: %w", err)
	}
	return nil
}

// parseSwitch accepts on/off and the usual boolean spellings.
func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q (expected on or off)", s)
}

func formatSwitch(on bool) string {
	if on {
		return badgeOn.Render("on")
	}
	return badgeOff.Render("off")
}
