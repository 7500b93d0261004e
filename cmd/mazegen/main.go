// mazegen prints a maze: either a randomly generated one or the predefined demo layout.
//
// Generating with the same -seed and dimensions always gives the same maze.
package main

import (
	"flag"
	"fmt"

	"github.com/janpfeifer/antsGo/internal/maze"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagCols       = flag.Int("cols", 51, "Number of columns. Generated mazes use the largest odd number <= cols.")
	flagRows       = flag.Int("rows", 41, "Number of rows. Generated mazes use the largest odd number <= rows.")
	flagSeed       = flag.Uint64("seed", 0, "Seed for the maze generation. If 0 a random seed is used and printed.")
	flagBraiding   = flag.Float64("braiding", 0, "Probability in [0, 1] of removing each dead end.")
	flagPredefined = flag.Bool("predefined", false, "Print the predefined maze instead of generating one.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	var m *maze.Maze
	if *flagPredefined {
		m = must.M1(maze.NewPredefined(*flagCols, *flagRows))
	} else {
		m = must.M1(maze.Generate(*flagCols, *flagRows, maze.GenerateOptions{Seed: *flagSeed, Braiding: *flagBraiding}))
	}
	fmt.Print(m)
	fmt.Printf("\nMaze %dx%d", m.Cols(), m.Rows())
	if !*flagPredefined {
		fmt.Printf(", seed=%d", m.Seed())
	}
	fmt.Println()
	if ok, steps := m.Reachable(m.Start(), m.Goal()); ok {
		fmt.Printf("Start %s reaches goal %s in %d steps.\n", m.Start(), m.Goal(), steps)
	} else {
		fmt.Printf("Start %s doesn't reach goal %s.\n", m.Start(), m.Goal())
	}
}
