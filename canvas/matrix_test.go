package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixCanvas_Creation(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"Small", 10, 5},
		{"Wide", 100, 10},
		{"Tall", 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewMatrixCanvas(tt.width, tt.height)
			require.NoError(t, err)

			w, h := c.Size()
			assert.Equal(t, tt.width, w)
			assert.Equal(t, tt.height, h)
			for _, line := range c.Lines() {
				assert.Empty(t, line)
			}
		})
	}

	_, err := NewMatrixCanvas(0, 5)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestMatrixCanvas_GetSet(t *testing.T) {
	c, err := NewMatrixCanvas(5, 3)
	require.NoError(t, err)

	require.NoError(t, c.Set(Cell{1, 1}, '─'))
	require.NoError(t, c.Set(Cell{1, 1}, '│'))
	assert.Equal(t, '┼', c.Get(Cell{1, 1}))

	assert.ErrorIs(t, c.Set(Cell{5, 0}, 'x'), ErrOutOfBounds)
	assert.Equal(t, ' ', c.Get(Cell{-1, 0}))

	c.Clear()
	assert.Equal(t, ' ', c.Get(Cell{1, 1}))
}

func TestCharacterMerger(t *testing.T) {
	m := NewCharacterMerger()
	tests := []struct {
		existing, new, want rune
	}{
		{' ', '│', '│'},
		{'─', '│', '┼'},
		{'│', '─', '┼'},
		{'┌', '─', '┬'},
		{'└', '│', '├'},
		{'═', '│', '╪'},
		{'━', '│', '┿'},
		{'▼', '─', '▼'},
		{'─', '▲', '▲'},
		{'x', '│', 'x'},
	}
	for _, tt := range tests {
		assert.Equal(t, string(tt.want), string(m.Merge(tt.existing, tt.new)), "%c + %c", tt.existing, tt.new)
	}
}

func TestMatrixCanvas_DrawBox(t *testing.T) {
	c, err := NewMatrixCanvas(6, 3)
	require.NoError(t, err)

	require.NoError(t, c.DrawBox(0, 0, 6, 3, DefaultBoxStyle))
	assert.Equal(t, "┌────┐\n│    │\n└────┘", c.String())

	assert.Error(t, c.DrawBox(0, 0, 1, 3, DefaultBoxStyle))
}

func TestMatrixCanvas_DrawText(t *testing.T) {
	c, err := NewMatrixCanvas(6, 1)
	require.NoError(t, err)

	require.NoError(t, c.DrawText(1, 0, "ab"))
	assert.Equal(t, " ab", c.String())

	require.NoError(t, c.DrawText(4, 0, "xyz"))
	assert.Equal(t, " ab xy", c.String(), "text is clipped at the right edge")

	c.Clear()
	require.NoError(t, c.DrawText(0, 0, "日本"))
	assert.Equal(t, "日本", c.String())

	assert.ErrorIs(t, c.DrawText(0, 1, "a"), ErrOutOfBounds)
}

func TestMatrixCanvas_DrawPath(t *testing.T) {
	tests := []struct {
		name  string
		cells []Cell
		want  string
	}{
		{
			name:  "east then south",
			cells: []Cell{{0, 0}, {3, 0}, {3, 2}},
			want:  "───╮\n   │\n   │",
		},
		{
			name:  "south then east",
			cells: []Cell{{0, 0}, {0, 2}, {3, 2}},
			want:  "│\n│\n╰───",
		},
		{
			name:  "west loop up",
			cells: []Cell{{3, 2}, {0, 2}, {0, 0}, {3, 0}},
			want:  "╭───\n│\n╰───",
		},
		{
			name:  "diagonal gets an elbow",
			cells: []Cell{{0, 0}, {2, 2}},
			want:  "──╮\n  │\n  │",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewMatrixCanvas(4, 3)
			require.NoError(t, err)
			require.NoError(t, c.DrawPath(tt.cells))
			assert.Equal(t, tt.want, c.String())
		})
	}
}

func TestMatrixCanvas_DrawPathNeedsTwoCells(t *testing.T) {
	c, err := NewMatrixCanvas(4, 3)
	require.NoError(t, err)
	assert.Error(t, c.DrawPath([]Cell{{1, 1}, {1, 1}}))
}

func TestArrowFor(t *testing.T) {
	assert.Equal(t, '▼', arrowFor(Cell{0, 0}, Cell{0, 1}))
	assert.Equal(t, '▲', arrowFor(Cell{0, 1}, Cell{0, 0}))
	assert.Equal(t, '▶', arrowFor(Cell{0, 0}, Cell{1, 0}))
	assert.Equal(t, '◀', arrowFor(Cell{1, 0}, Cell{0, 0}))
}
