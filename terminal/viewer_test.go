package terminal

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grafed/canvas"
)

func testCanvas(t *testing.T) *canvas.MatrixCanvas {
	t.Helper()
	c, err := canvas.NewMatrixCanvas(20, 10)
	require.NoError(t, err)
	require.NoError(t, c.DrawBox(0, 0, 20, 10, canvas.DefaultBoxStyle))
	require.NoError(t, c.DrawText(2, 1, "abc"))
	return c
}

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func cellAt(s tcell.SimulationScreen, x, y int) rune {
	cells, w, _ := s.GetContents()
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestViewer_Draw(t *testing.T) {
	s := newScreen(t, 10, 5)
	v := NewViewer(s, testCanvas(t), "demo", nil)

	v.Draw()

	assert.Equal(t, '┌', cellAt(s, 0, 0))
	assert.Equal(t, 'a', cellAt(s, 2, 1))
	assert.Equal(t, '│', cellAt(s, 0, 3))
	assert.Equal(t, 'd', cellAt(s, 1, 4), "status bar shows the title")
}

func TestViewer_PanIsClamped(t *testing.T) {
	s := newScreen(t, 10, 5)
	v := NewViewer(s, testCanvas(t), "demo", nil)

	assert.False(t, v.HandleEvent(key(tcell.KeyLeft, 0)))
	x, y := v.Offset()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	v.HandleEvent(key(tcell.KeyRune, 'l'))
	v.HandleEvent(key(tcell.KeyRight, 0))
	v.HandleEvent(key(tcell.KeyRune, 'j'))
	x, y = v.Offset()
	assert.Equal(t, 2, x)
	assert.Equal(t, 1, y)

	v.Draw()
	assert.Equal(t, 'a', cellAt(s, 0, 0))

	// canvas is 20x10, the window 10x4
	for i := 0; i < 30; i++ {
		v.HandleEvent(key(tcell.KeyRune, 'l'))
		v.HandleEvent(key(tcell.KeyPgDn, 0))
	}
	x, y = v.Offset()
	assert.Equal(t, 10, x)
	assert.Equal(t, 6, y)
	v.Draw()
	assert.Equal(t, '┘', cellAt(s, 9, 3))

	v.HandleEvent(key(tcell.KeyHome, 0))
	x, y = v.Offset()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
}

func TestViewer_QuitKeys(t *testing.T) {
	s := newScreen(t, 10, 5)
	v := NewViewer(s, testCanvas(t), "demo", nil)

	assert.True(t, v.HandleEvent(key(tcell.KeyRune, 'q')))
	assert.True(t, v.HandleEvent(key(tcell.KeyEscape, 0)))
	assert.True(t, v.HandleEvent(key(tcell.KeyCtrlC, 0)))
	assert.False(t, v.HandleEvent(key(tcell.KeyRune, 'x')))
}

func TestViewer_Run(t *testing.T) {
	s := newScreen(t, 10, 5)
	v := NewViewer(s, testCanvas(t), "demo", nil)

	s.InjectKey(tcell.KeyRune, 'l', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- v.Run(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("viewer did not quit")
	}
	x, _ := v.Offset()
	assert.Equal(t, 1, x)
}

func TestViewer_RunCancelled(t *testing.T) {
	s := newScreen(t, 10, 5)
	v := NewViewer(s, testCanvas(t), "demo", nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("viewer ignored cancellation")
	}
}
