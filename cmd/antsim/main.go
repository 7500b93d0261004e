// antsim runs the ant colony simulation in the terminal.
//
// The configuration starts from the defaults, then it is overwritten by the YAML file given
// in -config_file, and finally by the parameters given in -config, e.g.:
//
//	$ antsim -config "num_ants=500,maze=generated,seed=3" -ticks 5000 -print_every 100
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/janpfeifer/antsGo/internal/colony"
	"github.com/janpfeifer/antsGo/internal/config"
	"github.com/janpfeifer/antsGo/internal/profilers"
	"github.com/janpfeifer/antsGo/internal/ui/cli"
	"github.com/janpfeifer/antsGo/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	_ = fmt.Printf

	flagConfig     = flag.String("config", "", "Simulation parameters, e.g.: \"num_ants=500,maze=generated,seed=3\".")
	flagConfigFile = flag.String("config_file", "", "YAML file with simulation parameters, applied before --config.")
	flagTicks      = flag.Int("ticks", 0, "Number of ticks to run. If 0 runs until interrupted (Ctrl+C).")
	flagFrame      = flag.Duration("frame", 0, "Minimum duration of each tick. If 0 runs as fast as possible.")
	flagPrintEvery = flag.Int("print_every", 100, "Print the simulation every these many ticks. If 0 only the end is printed.")
	flagRegenerate = flag.Int("regenerate_every", 0, "If > 0, generate a new random maze every these many ticks.")
	flagClear      = flag.Bool("clear", false, "Clear the screen before printing the simulation.")
	flagNoColor    = flag.Bool("no_color", false, "Print without colors.")
	flagQuiet      = flag.Bool("quiet", false, "Don't print the map while running: only a status line, and the final stats.")

	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagTicks < 0 || *flagPrintEvery < 0 {
		klog.Fatalf("Invalid --ticks=%d or --print_every=%d", *flagTicks, *flagPrintEvery)
	}

	// Capture Control+C
	var cancel func()
	globalCtx, cancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	profilers.Setup(globalCtx)
	defer profilers.OnQuit()

	cfg := must.M1(loadConfig())
	c, err := colony.New(cfg)
	if err != nil {
		klog.Exitf("Failed to create colony: %+v", err)
	}
	ui := cli.New(!*flagNoColor, *flagClear)
	run(globalCtx, c, ui)

	s := c.Snapshot()
	if *flagQuiet {
		ui.PrintStats(s)
	} else {
		ui.Print(s)
	}
}

// loadConfig from the defaults, the --config_file and the --config flags, in this order.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *flagConfigFile != "" {
		if err := cfg.LoadYAML(*flagConfigFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyParams(*flagConfig); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run ticks the colony until --ticks is reached or ctx is cancelled.
func run(ctx context.Context, c *colony.Colony, ui *cli.UI) {
	var frame <-chan time.Time
	if *flagFrame > 0 {
		ticker := time.NewTicker(*flagFrame)
		defer ticker.Stop()
		frame = ticker.C
	}
	var spinner *spinning.Spinning
	if *flagQuiet {
		spinner = spinning.New(ctx)
		defer spinner.Done()
	}

	start := time.Now()
	for *flagTicks == 0 || c.TickCount() < int64(*flagTicks) {
		if ctx.Err() != nil {
			klog.Infof("Interrupted at tick %d", c.TickCount())
			break
		}
		c.Tick()
		tick := c.TickCount()
		if *flagRegenerate > 0 && tick%int64(*flagRegenerate) == 0 {
			must.M(c.Regenerate(0))
		}
		if spinner != nil {
			spinner.SetStatus(fmt.Sprintf("tick %d: %d ants, %d food found", tick, c.Population(), c.FoodFound()))
		}
		if *flagPrintEvery > 0 && tick%int64(*flagPrintEvery) == 0 {
			klog.V(1).Infof("Tick %d: population=%d, food found=%d", tick, c.Population(), c.FoodFound())
			if spinner == nil {
				ui.Print(c.Snapshot())
			}
		}
		if frame != nil {
			select {
			case <-ctx.Done():
			case <-frame:
			}
		}
	}
	elapsed := time.Since(start)
	klog.Infof("Ran %d ticks in %s (%.1f ticks/s), food found %d times",
		c.TickCount(), elapsed, float64(c.TickCount())/elapsed.Seconds(), c.FoodFound())
}
