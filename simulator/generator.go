package simulator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/theoremus-urban-solutions/salestrack/config"
	"github.com/theoremus-urban-solutions/salestrack/tracking"
)

// Generator builds random-walk histories.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	cfg config.SimulatorConfig
}

// NewGenerator creates a generator seeded from cfg.Seed.
func NewGenerator(cfg config.SimulatorConfig) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(cfg.Seed)), cfg: cfg}
}

// jitter returns a step in [-StepDegrees/2, StepDegrees/2).
func (g *Generator) jitter() float64 {
	return (g.rng.Float64() - 0.5) * g.cfg.StepDegrees
}

// History walks from start across the configured hours of day, one sample per
// step, all stamped on day's date in day's location.
func (g *Generator) History(start tracking.Coordinate, day time.Time) []tracking.Sample {
	g.mu.Lock()
	defer g.mu.Unlock()

	step := g.cfg.HistoryStepMin
	if step <= 0 {
		step = 5
	}
	y, mo, d := day.Date()
	lat, lng := start.Lat, start.Lng
	var out []tracking.Sample
	for h := g.cfg.HistoryStartHour; h < g.cfg.HistoryEndHour; h++ {
		for m := 0; m < 60; m += step {
			lat += g.jitter()
			lng += g.jitter()
			out = append(out, tracking.Sample{
				Lat:  lat,
				Lng:  lng,
				Time: time.Date(y, mo, d, h, m, 0, 0, day.Location()),
			})
		}
	}
	return out
}

// Populate registers every configured agent in store with a generated history.
func (g *Generator) Populate(store *tracking.Store, agents []config.AgentConfig, day time.Time) {
	for _, a := range agents {
		history := g.History(tracking.Coordinate{Lat: a.Lat, Lng: a.Lng}, day)
		store.Add(tracking.Agent{ID: a.ID, Name: a.Name}, history)
	}
}
