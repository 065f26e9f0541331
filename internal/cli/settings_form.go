package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jqntn/timetracker/internal/settings"
	"github.com/jqntn/timetracker/internal/startup"
)

// Rows of the settings form.
const (
	fieldStartup = iota
	fieldAutoUpdate
	fieldCount
)

// settingsField is a single toggle in the settings form.
type settingsField struct {
	Label string
	On    bool
}

// settingsFormKeys are the bindings of the settings form.
type settingsFormKeys struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Save   key.Binding
	Quit   key.Binding
}

// ShortHelp implements help.KeyMap.
func (k settingsFormKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Toggle, k.Save, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k settingsFormKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var formKeys = settingsFormKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/↓", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↑/↓", "navigate"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space", "x"),
		key.WithHelp("space", "toggle"),
	),
	Save: key.NewBinding(
		key.WithKeys("enter", "s"),
		key.WithHelp("enter", "save"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "q", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	),
}

// settingsForm edits the preferences in the terminal.
type settingsForm struct {
	fields [fieldCount]settingsField
	cursor int
	saved  bool
	help   help.Model
}

func newSettingsForm(startupOn, autoUpdateOn bool) settingsForm {
	var f settingsForm
	f.fields[fieldStartup] = settingsField{Label: "Run at startup", On: startupOn}
	f.fields[fieldAutoUpdate] = settingsField{Label: "Auto update", On: autoUpdateOn}
	f.help = help.New()
	return f
}

func (f settingsForm) Init() tea.Cmd {
	return nil
}

func (f settingsForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil
	}

	switch {
	case key.Matches(keyMsg, formKeys.Up):
		if f.cursor > 0 {
			f.cursor--
		}
	case key.Matches(keyMsg, formKeys.Down):
		if f.cursor < fieldCount-1 {
			f.cursor++
		}
	case key.Matches(keyMsg, formKeys.Toggle):
		f.fields[f.cursor].On = !f.fields[f.cursor].On
	case key.Matches(keyMsg, formKeys.Save):
		f.saved = true
		return f, tea.Quit
	case key.Matches(keyMsg, formKeys.Quit):
		return f, tea.Quit
	}
	return f, nil
}

func (f settingsForm) View() string {
	var b strings.Builder
	b.WriteString("  " + styleBrand.Render("Preferences") + "\n\n")
	for i, field := range f.fields {
		toggle := formToggleOff.Render("[OFF]")
		if field.On {
			toggle = formToggleOn.Render("[ON] ")
		}
		line := fmt.Sprintf("%s %-16s", toggle, field.Label)
		if i == f.cursor {
			line = formCursor.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n  " + f.help.View(formKeys) + "\n")
	return b.String()
}

// isInteractive reports whether both stdin and stdout are terminals.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// editSettings runs the settings form and applies what the user saved.
func editSettings(store settings.Store, registrar startup.Registrar) error {
	startupOn, err := registrar.IsEnabled()
	if err != nil {
		return fmt.Errorf("failed to read startup registration: %w", err)
	}
	autoUpdateOn := settings.Enabled(store, settings.KeyAutoUpdate)

	final, err := tea.NewProgram(newSettingsForm(startupOn, autoUpdateOn)).Run()
	if err != nil {
		return fmt.Errorf("settings form: %w", err)
	}
	return applySettingsForm(final.(settingsForm), store, registrar, startupOn, autoUpdateOn)
}

// applySettingsForm writes the fields that differ from what the form was
// opened with. A cancelled form writes nothing.
func applySettingsForm(f settingsForm, store settings.Store, registrar startup.Registrar, startupWas, autoUpdateWas bool) error {
	if !f.saved {
		return nil
	}
	if on := f.fields[fieldAutoUpdate].On; on != autoUpdateWas {
		if err := store.Set(settings.KeyAutoUpdate, settings.FromBool(on)); err != nil {
			return fmt.Errorf("failed to save auto update: %w", err)
		}
	}
	if on := f.fields[fieldStartup].On; on != startupWas {
		if err := setStartup(registrar, on); err != nil {
			return err
		}
	}
	return nil
}
