//go:build darwin

package tray

import (
	"context"

	"github.com/getlantern/systray"

	"github.com/jqntn/timetracker/internal/assets"
)

// systrayMenu implements Menu on top of systray checkbox items.
type systrayMenu struct {
	startupItem *systray.MenuItem
	updateItem  *systray.MenuItem
}

func (m *systrayMenu) SetStartupChecked(checked bool) {
	setChecked(m.startupItem, checked)
}

func (m *systrayMenu) SetUpdateChecked(checked bool) {
	setChecked(m.updateItem, checked)
}

func setChecked(item *systray.MenuItem, checked bool) {
	if checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}

// runSystray binds the status bar item. Cocoa always opens the menu on a
// click and reports neither the click nor the menu opening, so activation
// goes through "Show records" and the check marks are kept fresh by
// forwardRefreshes alone.
func runSystray(ctx context.Context, cancel context.CancelFunc, c *Coordinator, opts RunOptions) {
	onReady := func() {
		systray.SetIcon(assets.TrayIcon())
		systray.SetTooltip(opts.Tooltip)

		showItem := systray.AddMenuItem(labelShow, "Open the records window")
		systray.AddSeparator()
		startupItem := systray.AddMenuItemCheckbox(labelStartup, "Launch when you log in", false)
		updateItem := systray.AddMenuItemCheckbox(labelUpdate, "Install new releases on launch", false)
		systray.AddSeparator()
		exitItem := systray.AddMenuItem(labelExit, "Quit the application")

		menu := &systrayMenu{startupItem: startupItem, updateItem: updateItem}

		go forwardClicks(ctx, c, showItem, startupItem, updateItem, exitItem)
		startLoop(ctx, c, menu, opts, systray.Quit)
	}

	onExit := func() {
		cancel()
		<-c.Done()
	}

	systray.Run(onReady, onExit)
}

// forwardClicks turns menu clicks into coordinator events.
func forwardClicks(ctx context.Context, c *Coordinator, show, startup, update, exit *systray.MenuItem) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.Done():
			return
		case <-show.ClickedCh:
			c.Post(Event{Kind: EventActivate})
		case <-startup.ClickedCh:
			c.Post(Event{Kind: EventToggleStartup})
		case <-update.ClickedCh:
			c.Post(Event{Kind: EventToggleUpdate})
		case <-exit.ClickedCh:
			c.Post(Event{Kind: EventExit})
		}
	}
}
