package window

import (
	"context"
	"io"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/jqntn/timetracker/internal/assets"
	"github.com/jqntn/timetracker/internal/config"
)

var windowSize = fyne.NewSize(640, 420)

// Run shows the content window and blocks until it is closed, the parent
// sends CmdClose, in reaches EOF or ctx is cancelled. It must be called from
// the main goroutine.
func Run(ctx context.Context, in io.Reader) error {
	a := app.NewWithID(config.BundleID)
	a.SetIcon(fyne.NewStaticResource("icon.png", assets.IconPNG()))

	w := a.NewWindow(config.AppName)
	w.SetContent(content())
	w.Resize(windowSize)
	w.SetFixedSize(true)
	w.CenterOnScreen()
	w.SetMaster()

	stop := context.AfterFunc(ctx, func() {
		fyne.Do(a.Quit)
	})
	defer stop()

	go func() {
		err := readCommands(in, func(cmd string) {
			switch cmd {
			case CmdFocus:
				fyne.Do(func() {
					w.Show()
					w.RequestFocus()
				})
			case CmdClose:
				fyne.Do(a.Quit)
			default:
				log.Printf("[window] unknown command %q", cmd)
			}
		})
		if err != nil {
			log.Printf("[window] command pipe: %v", err)
		}
		// The parent went away.
		fyne.Do(a.Quit)
	}()

	w.ShowAndRun()
	return nil
}

func content() fyne.CanvasObject {
	title := widget.NewLabelWithStyle(config.AppName, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	body := widget.NewLabelWithStyle("No records yet.", fyne.TextAlignCenter, fyne.TextStyle{})
	return container.NewCenter(container.NewVBox(title, body))
}
