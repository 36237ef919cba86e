// Package terminal is a read-only full-screen viewer for diagram previews.
package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"grafed/canvas"
)

// Viewer shows a rendered canvas on a tcell screen. The last screen row is a
// status bar; the rest is a window onto the canvas that can be panned.
type Viewer struct {
	screen tcell.Screen
	lines  []string
	width  int // widest line in cells
	title  string
	logger *log.Logger

	offsetX, offsetY int
}

// NewViewer prepares a viewer for c. The screen must already be initialised.
func NewViewer(screen tcell.Screen, c *canvas.MatrixCanvas, title string, logger *log.Logger) *Viewer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	lines := c.Lines()
	width := 0
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l))
	}
	return &Viewer{screen: screen, lines: lines, width: width, title: title, logger: logger}
}

// Offset returns the canvas cell shown in the top-left corner.
func (v *Viewer) Offset() (x, y int) {
	return v.offsetX, v.offsetY
}

// Run draws and handles events until the user quits, the screen is
// finalised or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		v.screen.PostEvent(tcell.NewEventInterrupt(ctx.Err()))
	})
	defer stop()

	for {
		v.Draw()
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok {
			return ctx.Err()
		}
		if v.HandleEvent(ev) {
			return nil
		}
	}
}

// HandleEvent applies one event and reports whether the viewer should quit.
func (v *Viewer) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		v.clamp()
	case *tcell.EventKey:
		_, h := v.screen.Size()
		page := max(h-2, 1)

		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyUp:
			v.pan(0, -1)
		case tcell.KeyDown:
			v.pan(0, 1)
		case tcell.KeyLeft:
			v.pan(-1, 0)
		case tcell.KeyRight:
			v.pan(1, 0)
		case tcell.KeyPgUp:
			v.pan(0, -page)
		case tcell.KeyPgDn:
			v.pan(0, page)
		case tcell.KeyHome:
			v.offsetX, v.offsetY = 0, 0
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true
			case 'k':
				v.pan(0, -1)
			case 'j':
				v.pan(0, 1)
			case 'h':
				v.pan(-1, 0)
			case 'l':
				v.pan(1, 0)
			}
		}
	}
	return false
}

func (v *Viewer) pan(dx, dy int) {
	v.offsetX += dx
	v.offsetY += dy
	v.clamp()
	v.logger.Debug("pan", "x", v.offsetX, "y", v.offsetY)
}

// clamp keeps the window inside the canvas.
func (v *Viewer) clamp() {
	w, h := v.screen.Size()
	maxX := max(v.width-w, 0)
	maxY := max(len(v.lines)-(h-1), 0)
	v.offsetX = min(max(v.offsetX, 0), maxX)
	v.offsetY = min(max(v.offsetY, 0), maxY)
}

// Draw renders the visible window and the status bar.
func (v *Viewer) Draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	style := tcell.StyleDefault

	for row := 0; row < h-1; row++ {
		i := v.offsetY + row
		if i >= len(v.lines) {
			break
		}
		col := 0
		for _, r := range v.lines[i] {
			rw := runewidth.RuneWidth(r)
			x := col - v.offsetX
			col += rw
			if x < 0 {
				continue
			}
			if x >= w {
				break
			}
			v.screen.SetContent(x, row, r, nil, style)
		}
	}

	status := fmt.Sprintf(" %s  %d,%d  hjkl/arrows pan  q quit", v.title, v.offsetX, v.offsetY)
	status += strings.Repeat(" ", max(w-runewidth.StringWidth(status), 0))
	col := 0
	for _, r := range status {
		if col >= w {
			break
		}
		v.screen.SetContent(col, h-1, r, nil, style.Reverse(true))
		col += runewidth.RuneWidth(r)
	}
	v.screen.Show()
}

// View opens the terminal, shows c until the user quits and restores the
// terminal.
func View(ctx context.Context, c *canvas.MatrixCanvas, title string, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	return NewViewer(screen, c, title, logger).Run(ctx)
}
