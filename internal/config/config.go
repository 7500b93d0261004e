// Package config holds the parameters of the ant colony simulation.
//
// A Config starts from Default, optionally overwritten by a YAML file (LoadYAML) and then by a
// parameters string (ApplyParams), e.g. "num_ants=500,maze=generated,seed=3".
// The simulation never changes the Config it is given.
package config

import (
	"bytes"
	"math"
	"os"
	"time"

	"github.com/janpfeifer/antsGo/internal/parameters"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MazeKind selects how the maze is built.
type MazeKind string

const (
	// MazePredefined is the fixed demo layout with wall bands.
	MazePredefined MazeKind = "predefined"

	// MazeGenerated is a random maze generated from Config.Seed.
	MazeGenerated MazeKind = "generated"
)

// Config of a simulation run.
type Config struct {
	// Maze and grid.
	GridCols     int      `yaml:"grid_cols"`
	GridRows     int      `yaml:"grid_rows"`
	CellSize     float64  `yaml:"cell_size"` // Pixels (world units) per grid cell.
	Maze         MazeKind `yaml:"maze"`
	MazeBraiding float64  `yaml:"maze_braiding"` // Only for generated mazes.

	// Population.
	NumAnts       int           `yaml:"num_ants"`
	SpawnInterval time.Duration `yaml:"spawn_interval"`

	// Pheromones.
	EvaporationRate       float64 `yaml:"evaporation_rate"` // Multiplicative decay per tick.
	DepositionRateExplore float64 `yaml:"deposition_rate_explore"`
	DepositionRateReturn  float64 `yaml:"deposition_rate_return"`
	PheromoneMax          float64 `yaml:"pheromone_max"`
	PheromoneDuration     int     `yaml:"pheromone_duration"` // Ticks of "charge" after a state change.

	// Ant behavior.
	AntSpeed              float64 `yaml:"ant_speed"`    // Pixels per tick.
	SenseRadius           float64 `yaml:"sense_radius"` // In cells.
	SenseAngle            float64 `yaml:"sense_angle"`  // Radians, full field of view.
	GoalSenseRadius       float64 `yaml:"goal_sense_radius"`
	TurnAngle             float64 `yaml:"turn_angle"` // Max turn per tick, radians.
	FollowStrengthWeight  float64 `yaml:"follow_strength_weight"`
	RandomTurnChance      float64 `yaml:"random_turn_chance"`
	FoodDetectionRadius   float64 `yaml:"food_detection_radius"`
	ColonyDetectionRadius float64 `yaml:"colony_detection_radius"`
	HistoryLength         int     `yaml:"history_length"`

	// Execution.
	Seed        uint64 `yaml:"seed"`        // 0 means random.
	Parallelism int    `yaml:"parallelism"` // Ant update goroutines: 0 or 1 is sequential, < 0 uses GOMAXPROCS.
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		GridCols: 50,
		GridRows: 40,
		CellSize: 10,
		Maze:     MazePredefined,

		NumAnts:       2500,
		SpawnInterval: 100 * time.Millisecond,

		EvaporationRate:       0.005,
		DepositionRateExplore: 15,
		DepositionRateReturn:  15,
		PheromoneMax:          255,
		PheromoneDuration:     2200,

		AntSpeed:              1,
		SenseRadius:           5,
		SenseAngle:            math.Pi / 2.5,
		GoalSenseRadius:       5,
		TurnAngle:             math.Pi / 6,
		FollowStrengthWeight:  5,
		RandomTurnChance:      0.1,
		FoodDetectionRadius:   1,
		ColonyDetectionRadius: 1,
		HistoryLength:         20,

		Parallelism: 1,
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	newC := *c
	return &newC
}

// Width of the world in pixels.
func (c *Config) Width() float64 { return float64(c.GridCols) * c.CellSize }

// Height of the world in pixels.
func (c *Config) Height() float64 { return float64(c.GridRows) * c.CellSize }

// Validate returns an error describing the first invalid value found.
func (c *Config) Validate() error {
	switch {
	case c.GridCols < 3 || c.GridRows < 3:
		return errors.Errorf("grid must be at least 3x3, got %dx%d", c.GridCols, c.GridRows)
	case c.CellSize <= 0:
		return errors.Errorf("cell_size must be > 0, got %g", c.CellSize)
	case c.Maze != MazePredefined && c.Maze != MazeGenerated:
		return errors.Errorf("unknown maze kind %q, valid values are %q or %q", c.Maze, MazePredefined, MazeGenerated)
	case c.MazeBraiding < 0 || c.MazeBraiding > 1:
		return errors.Errorf("maze_braiding must be in [0, 1], got %g", c.MazeBraiding)
	case c.NumAnts < 0:
		return errors.Errorf("num_ants must be >= 0, got %d", c.NumAnts)
	case c.SpawnInterval < 0:
		return errors.Errorf("spawn_interval must be >= 0, got %s", c.SpawnInterval)
	case c.EvaporationRate < 0 || c.EvaporationRate > 1:
		return errors.Errorf("evaporation_rate must be in [0, 1], got %g", c.EvaporationRate)
	case c.DepositionRateExplore < 0 || c.DepositionRateReturn < 0:
		return errors.Errorf("deposition rates must be >= 0, got explore=%g, return=%g",
			c.DepositionRateExplore, c.DepositionRateReturn)
	case c.PheromoneMax <= 0:
		return errors.Errorf("pheromone_max must be > 0, got %g", c.PheromoneMax)
	case c.PheromoneDuration <= 0:
		return errors.Errorf("pheromone_duration must be > 0, got %d", c.PheromoneDuration)
	case c.AntSpeed <= 0:
		return errors.Errorf("ant_speed must be > 0, got %g", c.AntSpeed)
	case c.SenseRadius < 0 || c.GoalSenseRadius < 0 || c.FoodDetectionRadius < 0 || c.ColonyDetectionRadius < 0:
		return errors.New("sense and detection radii must be >= 0")
	case c.SenseAngle < 0 || c.TurnAngle < 0:
		return errors.Errorf("sense_angle and turn_angle must be >= 0, got %g and %g", c.SenseAngle, c.TurnAngle)
	case c.RandomTurnChance < 0 || c.RandomTurnChance > 1:
		return errors.Errorf("random_turn_chance must be in [0, 1], got %g", c.RandomTurnChance)
	case c.HistoryLength < 1:
		return errors.Errorf("history_length must be >= 1, got %d", c.HistoryLength)
	}
	return nil
}

// LoadYAML overwrites the fields present in the YAML file at path. Unknown keys are an error.
func (c *Config) LoadYAML(path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read configuration file %q", path)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(contents))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return errors.Wrapf(err, "failed to parse configuration file %q", path)
	}
	return nil
}

// ApplyParams overwrites the fields given in the parameters string (see package parameters).
// Unknown keys are an error.
func (c *Config) ApplyParams(config string) (err error) {
	params := parameters.NewFromConfigString(config)
	pop := func(key string, ptr any) {
		if err != nil {
			return
		}
		switch p := ptr.(type) {
		case *int:
			*p, err = parameters.PopParamOr(params, key, *p)
		case *uint64:
			*p, err = parameters.PopParamOr(params, key, *p)
		case *float64:
			*p, err = parameters.PopParamOr(params, key, *p)
		case *time.Duration:
			*p, err = parameters.PopParamOr(params, key, *p)
		case *MazeKind:
			var s string
			s, err = parameters.PopParamOr(params, key, string(*p))
			*p = MazeKind(s)
		}
	}
	pop("grid_cols", &c.GridCols)
	pop("grid_rows", &c.GridRows)
	pop("cell_size", &c.CellSize)
	pop("maze", &c.Maze)
	pop("maze_braiding", &c.MazeBraiding)
	pop("num_ants", &c.NumAnts)
	pop("spawn_interval", &c.SpawnInterval)
	pop("evaporation_rate", &c.EvaporationRate)
	pop("deposition_rate_explore", &c.DepositionRateExplore)
	pop("deposition_rate_return", &c.DepositionRateReturn)
	pop("pheromone_max", &c.PheromoneMax)
	pop("pheromone_duration", &c.PheromoneDuration)
	pop("ant_speed", &c.AntSpeed)
	pop("sense_radius", &c.SenseRadius)
	pop("sense_angle", &c.SenseAngle)
	pop("goal_sense_radius", &c.GoalSenseRadius)
	pop("turn_angle", &c.TurnAngle)
	pop("follow_strength_weight", &c.FollowStrengthWeight)
	pop("random_turn_chance", &c.RandomTurnChance)
	pop("food_detection_radius", &c.FoodDetectionRadius)
	pop("colony_detection_radius", &c.ColonyDetectionRadius)
	pop("history_length", &c.HistoryLength)
	pop("seed", &c.Seed)
	pop("parallelism", &c.Parallelism)
	if err != nil {
		return errors.WithMessagef(err, "parsing configuration %q", config)
	}
	return parameters.CheckAllConsumed(params)
}
