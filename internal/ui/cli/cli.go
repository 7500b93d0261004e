// Package cli implements a command-line UI for the simulation: a text map of the maze with the
// pheromone trails and the ants, and a stats panel.
package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/janpfeifer/antsGo/internal/ants"
	"github.com/janpfeifer/antsGo/internal/colony"
	"github.com/janpfeifer/antsGo/internal/grid"
	"github.com/janpfeifer/antsGo/internal/pheromones"
	"golang.org/x/term"
)

// Symbols used in the map.
const (
	WallSymbol      = '#'
	ColonySymbol    = 'C'
	FoodSymbol      = 'F'
	SearchingSymbol = 'a'
	ReturningSymbol = 'A'
)

// TrailSymbols are used for cells with pheromone, from weakest to strongest.
var TrailSymbols = []rune(".:o")

var ansiFilter = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth of s removes its color/control sequences and returns the length of what is left.
func displayWidth(s string) int {
	return len([]rune(ansiFilter.ReplaceAllString(s, "")))
}

func printCentered(w io.Writer, block string) {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	terminalWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		terminalWidth = 0
	}
	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, displayWidth(line))
	}
	indent := max(0, (terminalWidth-blockWidth)/2)
	for _, line := range lines {
		if len(line) == 0 {
			_, _ = fmt.Fprintln(w)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", indent), line)
	}
}

// UI prints snapshots of the simulation to a terminal.
type UI struct {
	color, clearScreen bool
	out                io.Writer
}

// New creates a UI writing to the standard output.
func New(color bool, clearScreen bool) *UI {
	return &UI{
		color:       color,
		clearScreen: clearScreen,
		out:         os.Stdout,
	}
}

// WithWriter makes the UI print to w instead.
func (ui *UI) WithWriter(w io.Writer) *UI {
	ui.out = w
	return ui
}

// Print the map and the stats panel of the snapshot.
func (ui *UI) Print(s *colony.Snapshot) {
	if ui.clearScreen {
		_, _ = fmt.Fprint(ui.out, "\033c")
	}
	_, _ = fmt.Fprintf(ui.out, "\n%sTick #%d%s\n\n", ui.boldStart(), s.Tick, ui.colorEnd())
	printCentered(ui.out, ui.Map(s))
	_, _ = fmt.Fprintln(ui.out)
	ui.PrintStats(s)
}

// PrintStats prints only the stats panel, centered.
func (ui *UI) PrintStats(s *colony.Snapshot) {
	printCentered(ui.out, ui.Stats(s))
}

// Map renders the maze as text, one line per row: walls, goals, ants and pheromone trails.
// An ant hides the trail under it, and a returning ant takes precedence over a searching one.
func (ui *UI) Map(s *colony.Snapshot) string {
	cols, rows := s.Maze.Cols(), s.Maze.Rows()
	antsAt := make(map[grid.Pos]ants.State, len(s.Ants))
	for _, ant := range s.Ants {
		if state, found := antsAt[ant.GridPos]; !found || state == ants.Searching {
			antsAt[ant.GridPos] = ant.State
		}
	}

	var sb strings.Builder
	for y := range rows {
		for x := range cols {
			pos := grid.Pos{x, y}
			if s.Maze.IsWall(pos) {
				sb.WriteString(ui.paint(string(WallSymbol), "8"))
				continue
			}
			switch pos {
			case s.Colony:
				sb.WriteString(ui.paint(string(ColonySymbol), "11"))
				continue
			case s.Food:
				sb.WriteString(ui.paint(string(FoodSymbol), "10"))
				continue
			}
			if state, found := antsAt[pos]; found {
				if state == ants.Returning {
					sb.WriteString(ui.paint(string(ReturningSymbol), "9"))
				} else {
					sb.WriteString(ui.paint(string(SearchingSymbol), "12"))
				}
				continue
			}
			sb.WriteString(ui.trail(s.Field, pos))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// trail returns the symbol for the strongest pheromone at pos, colored by its kind.
func (ui *UI) trail(field *pheromones.Field, pos grid.Pos) string {
	explore, ret := field.Level(pheromones.Explore, pos), field.Level(pheromones.Return, pos)
	level, color := explore, "4" // Blue for explore.
	if ret > explore {
		level, color = ret, "1" // Red for return.
	}
	if level <= 0 {
		return " "
	}
	idx := min(int(level/field.Max()*float64(len(TrailSymbols))), len(TrailSymbols)-1)
	return ui.paint(string(TrailSymbols[idx]), color)
}

// Stats renders the stats panel: a lipgloss box with the population and found food.
func (ui *UI) Stats(s *colony.Snapshot) string {
	searching, returning := s.Count()
	lines := []string{
		fmt.Sprintf("Tick:        %d", s.Tick),
		fmt.Sprintf("Ants:        %d / %d", s.Population, s.TargetAnts),
		fmt.Sprintf("  searching: %d", searching),
		fmt.Sprintf("  returning: %d", returning),
		fmt.Sprintf("Food found:  %d", s.FoodFound),
		fmt.Sprintf("Colony %s, food %s", s.Colony, s.Food),
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if ui.color {
		style = style.BorderForeground(lipgloss.Color("13"))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// paint s with the given ANSI 256 color, if colors are enabled.
func (ui *UI) paint(s, color string) string {
	if !ui.color {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
}

func (ui *UI) boldStart() string {
	if !ui.color {
		return ""
	}
	return "\033[37;03;1m"
}

func (ui *UI) colorEnd() string {
	if !ui.color {
		return ""
	}
	return "\033[39;49;0m"
}
