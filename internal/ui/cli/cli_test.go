package cli

import (
	"bytes"
	"testing"

	"github.com/janpfeifer/antsGo/internal/ants"
	"github.com/janpfeifer/antsGo/internal/colony"
	"github.com/janpfeifer/antsGo/internal/grid"
	"github.com/janpfeifer/antsGo/internal/maze"
	"github.com/janpfeifer/antsGo/internal/pheromones"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(t *testing.T) *colony.Snapshot {
	m, err := maze.FromRows([]string{
		"#####",
		"#   #",
		"#   #",
		"#####",
	})
	require.NoError(t, err)
	field := pheromones.New(m.Cols(), m.Rows(), 255)
	field.Deposit(pheromones.Explore, grid.Pos{2, 2}, 255)
	field.Deposit(pheromones.Return, grid.Pos{3, 2}, 10)
	return &colony.Snapshot{
		Tick:  7,
		Maze:  m,
		Field: field,
		Ants: []ants.View{
			{GridPos: grid.Pos{2, 1}, State: ants.Searching},
			{GridPos: grid.Pos{2, 1}, State: ants.Returning},
			{GridPos: grid.Pos{1, 2}, State: ants.Searching},
		},
		Colony:     grid.Pos{1, 1},
		Food:       grid.Pos{3, 1},
		FoodFound:  4,
		Population: 3,
		TargetAnts: 10,
	}
}

func TestMap(t *testing.T) {
	ui := New(false, false)
	want := "#####\n" +
		"#CAF#\n" +
		"#ao.#\n" +
		"#####\n"
	assert.Equal(t, want, ui.Map(testSnapshot(t)))
}

func TestStats(t *testing.T) {
	ui := New(false, false)
	stats := ui.Stats(testSnapshot(t))
	assert.Contains(t, stats, "Tick:        7")
	assert.Contains(t, stats, "3 / 10")
	assert.Contains(t, stats, "searching: 2")
	assert.Contains(t, stats, "returning: 1")
	assert.Contains(t, stats, "Food found:  4")
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	ui := New(false, false).WithWriter(&buf)
	ui.Print(testSnapshot(t))
	out := buf.String()
	assert.Contains(t, out, "Tick #7")
	assert.Contains(t, out, "#CAF#")
	assert.Contains(t, out, "Food found:  4")
	assert.NotContains(t, out, "\033")
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 2, displayWidth("\x1b[31mab\x1b[0m"))
	assert.Equal(t, 3, displayWidth("╭─╮"))
}
