//go:build !darwin

package tray

import (
	"context"

	"github.com/energye/systray"

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

// runSystray binds the notification-area icon. A primary click activates
// the window; a secondary click refreshes the check marks and then shows
// the menu.
func runSystray(ctx context.Context, cancel context.CancelFunc, c *Coordinator, opts RunOptions) {
	onReady := func() {
		systray.SetIcon(assets.TrayIcon())
		systray.SetTooltip(opts.Tooltip)

		systray.SetOnClick(func(systray.IMenu) {
			c.Post(Event{Kind: EventActivate})
		})
		systray.SetOnRClick(func(menu systray.IMenu) {
			c.Sync(Event{Kind: EventMenuOpened}, menuSyncTimeout)
			_ = menu.ShowMenu()
		})

		showItem := systray.AddMenuItem(labelShow, "Open the records window")
		systray.AddSeparator()
		startupItem := systray.AddMenuItemCheckbox(labelStartup, "Launch when you log in", false)
		updateItem := systray.AddMenuItemCheckbox(labelUpdate, "Install new releases on launch", false)
		systray.AddSeparator()
		exitItem := systray.AddMenuItem(labelExit, "Quit the application")

		showItem.Click(func() { c.Post(Event{Kind: EventActivate}) })
		startupItem.Click(func() { c.Post(Event{Kind: EventToggleStartup}) })
		updateItem.Click(func() { c.Post(Event{Kind: EventToggleUpdate}) })
		exitItem.Click(func() { c.Post(Event{Kind: EventExit}) })

		menu := &systrayMenu{startupItem: startupItem, updateItem: updateItem}
		startLoop(ctx, c, menu, opts, systray.Quit)
	}

	onExit := func() {
		cancel()
		<-c.Done()
	}

	systray.Run(onReady, onExit)
}
