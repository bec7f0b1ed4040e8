package simulator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/salestrack/config"
	"github.com/theoremus-urban-solutions/salestrack/tracking"
	"github.com/theoremus-urban-solutions/salestrack/window"
)

func testConfig(seed int64) config.SimulatorConfig {
	return config.SimulatorConfig{
		Seed:             seed,
		IntervalMS:       10,
		MoveProbability:  0.5,
		StepDegrees:      0.01,
		HistoryStartHour: 9,
		HistoryEndHour:   12,
		HistoryStepMin:   5,
	}
}

var day = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func TestHistory_ShapeAndBounds(t *testing.T) {
	g := NewGenerator(testConfig(1))
	h := g.History(tracking.Coordinate{Lat: 23.0225, Lng: 72.5714}, day)

	require.Len(t, h, 36, "3 hours at 5 minute steps")
	min, max := window.Bounds(h)
	assert.Equal(t, "09:00", min.String())
	assert.Equal(t, "11:55", max.String())

	for i := 1; i < len(h); i++ {
		assert.True(t, h[i].Time.After(h[i-1].Time), "history must be chronological")
		assert.LessOrEqual(t, abs(h[i].Lat-h[i-1].Lat), 0.005)
		assert.LessOrEqual(t, abs(h[i].Lng-h[i-1].Lng), 0.005)
	}
}

func TestHistory_DeterministicForSeed(t *testing.T) {
	start := tracking.Coordinate{Lat: 19.076, Lng: 72.8777}
	a := NewGenerator(testConfig(42)).History(start, day)
	b := NewGenerator(testConfig(42)).History(start, day)
	c := NewGenerator(testConfig(43)).History(start, day)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestPopulate(t *testing.T) {
	store := tracking.NewStore()
	NewGenerator(testConfig(1)).Populate(store, config.DefaultAgents(), day)

	agents := store.Agents()
	require.Len(t, agents, 4)
	assert.Equal(t, "Raj", agents[0].Name)
	assert.Equal(t, 36, agents[0].Log.Len())
}

func TestLive_StepAppendsForEveryAgent(t *testing.T) {
	store := tracking.NewStore()
	gen := NewGenerator(testConfig(5))
	gen.Populate(store, config.DefaultAgents(), day)
	store.Add(tracking.Agent{ID: 99, Name: "empty"}, nil)

	live := NewLive(store, gen)
	now := day.Add(12 * time.Hour)
	assert.Equal(t, 4, live.Step(now), "agents without a position are skipped")

	for _, a := range store.Agents() {
		if a.ID == 99 {
			continue
		}
		last, ok := a.Current()
		require.True(t, ok)
		assert.Equal(t, now, last.Time)
		assert.Equal(t, 37, a.Log.Len())
	}
}

func TestLive_NeverMovesWithZeroProbability(t *testing.T) {
	cfg := testConfig(5)
	cfg.MoveProbability = 0
	store := tracking.NewStore()
	gen := NewGenerator(cfg)
	gen.Populate(store, config.DefaultAgents()[:1], day)
	before, _ := store.Agents()[0].Current()

	NewLive(store, gen).Step(day.Add(13 * time.Hour))
	after, _ := store.Agents()[0].Current()
	assert.Equal(t, before.Coordinate(), after.Coordinate())
}

func TestLive_RunStopsOnCancel(t *testing.T) {
	store := tracking.NewStore()
	gen := NewGenerator(testConfig(5))
	gen.Populate(store, config.DefaultAgents()[:1], day)

	appended := make(chan struct{}, 16)
	store.Subscribe(1, func(tracking.Sample) {
		select {
		case appended <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewLive(store, gen).Run(ctx) }()

	select {
	case <-appended:
	case <-time.After(5 * time.Second):
		t.Fatal("no live append")
	}
	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
