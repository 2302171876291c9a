// Package gui shows the statistics table in a desktop window.
package gui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/roffe/canshark"
)

var columnWidths = []float32{78, 60, 160, 76, 77, 65}

// Window is a canshark.Display backed by a fyne table. The first table row
// holds the column headers.
type Window struct {
	app    fyne.App
	window fyne.Window

	table  *widget.Table
	status *widget.Label

	mu   sync.RWMutex
	rows []canshark.ChannelStat
}

func New() *Window {
	a := app.New()
	w := a.NewWindow("canshark-gui")
	w.Resize(fyne.NewSize(676, 508))

	mw := &Window{
		app:    a,
		window: w,
		status: widget.NewLabel(""),
	}
	mw.table = widget.NewTable(
		func() (int, int) {
			mw.mu.RLock()
			defer mw.mu.RUnlock()
			return len(mw.rows) + 1, len(canshark.Columns)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			mw.updateCell(id, o.(*widget.Label))
		},
	)
	for i, width := range columnWidths {
		mw.table.SetColumnWidth(i, width)
	}

	title := widget.NewLabelWithStyle("CAN bus statistics", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	w.SetContent(container.NewBorder(title, mw.status, nil, nil, mw.table))
	return mw
}

func (mw *Window) updateCell(id widget.TableCellID, l *widget.Label) {
	col := canshark.Columns[id.Col]
	switch col.Align {
	case canshark.AlignCenter:
		l.Alignment = fyne.TextAlignCenter
	case canshark.AlignRight:
		l.Alignment = fyne.TextAlignTrailing
	default:
		l.Alignment = fyne.TextAlignLeading
	}
	if id.Row == 0 {
		l.TextStyle = fyne.TextStyle{Bold: true}
		l.SetText(col.Header)
		return
	}
	l.TextStyle = fyne.TextStyle{}
	mw.mu.RLock()
	defer mw.mu.RUnlock()
	if id.Row-1 >= len(mw.rows) {
		l.SetText("")
		return
	}
	l.SetText(canshark.CellText(mw.rows[id.Row-1], id.Col))
}

func (mw *Window) Render(rows []canshark.ChannelStat) {
	mw.mu.Lock()
	mw.rows = rows
	mw.mu.Unlock()
	mw.status.SetText(fmt.Sprintf("%d channels, updated %s", len(rows), time.Now().Format("15:04:05")))
	mw.table.Refresh()
}

// Run shows the window until it is closed or ctx is done. Polling starts
// with the window and stops before the shell releases its sources.
func (mw *Window) Run(ctx context.Context, shell *canshark.Shell) error {
	var closeErr error
	mw.window.SetCloseIntercept(func() {
		closeErr = shell.OnViewClose()
		mw.window.Close()
	})
	go func() {
		<-ctx.Done()
		mw.window.Close()
	}()
	shell.OnViewStart()
	mw.window.ShowAndRun()
	if err := shell.OnViewClose(); err != nil && closeErr == nil {
		closeErr = err
	}
	return closeErr
}
