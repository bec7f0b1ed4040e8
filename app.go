// Package salestrack serves live positions and history playback for tracked
// field agents.
package salestrack

import (
	"context"
	"errors"
	"time"

	"github.com/theoremus-urban-solutions/salestrack/config"
	"github.com/theoremus-urban-solutions/salestrack/geocode"
	"github.com/theoremus-urban-solutions/salestrack/metrics"
	"github.com/theoremus-urban-solutions/salestrack/playback"
	"github.com/theoremus-urban-solutions/salestrack/simulator"
	"github.com/theoremus-urban-solutions/salestrack/tracking"
)

// App wires the tracking store, its producer and the HTTP surface.
type App struct {
	Cfg      config.AppConfig
	Store    *tracking.Store
	Live     *simulator.Live
	Geocoder *geocode.Client
	Metrics  *metrics.Metrics

	overview *overviewCache
	now      func() time.Time

	// newScheduler creates the tick scheduler for one playback session.
	newScheduler func() playback.Scheduler
}

// NewApp builds an app with today's simulated history for every configured agent.
func NewApp(cfg config.AppConfig) *App {
	store := tracking.NewStore()
	gen := simulator.NewGenerator(cfg.Simulator)
	gen.Populate(store, cfg.Agents, time.Now())
	return newApp(cfg, store, simulator.NewLive(store, gen))
}

func newApp(cfg config.AppConfig, store *tracking.Store, live *simulator.Live) *App {
	m := metrics.New()
	geo := geocode.NewClient(cfg.Geocoder.URL, cfg.Geocoder.UserAgent,
		time.Duration(cfg.Geocoder.TimeoutMS)*time.Millisecond)
	geo.OnFailure(func(error) { m.GeocodeFailures.Inc() })

	for _, a := range store.Agents() {
		id := a.ID
		store.Subscribe(id, func(tracking.Sample) { m.ObserveAppend(id) })
	}

	frame := time.Duration(cfg.Playback.FrameIntervalMS) * time.Millisecond
	return &App{
		Cfg:          cfg,
		Store:        store,
		Live:         live,
		Geocoder:     geo,
		Metrics:      m,
		overview:     newOverviewCache(),
		now:          time.Now,
		newScheduler: func() playback.Scheduler { return playback.NewFrameScheduler(frame) },
	}
}

// RunSimulator appends live positions until ctx is done. It returns nil on a
// clean stop or when the simulator is disabled.
func (a *App) RunSimulator(ctx context.Context) error {
	if a.Cfg.Simulator.Disabled || a.Live == nil {
		<-ctx.Done()
		return nil
	}
	if err := a.Live.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) playbackOptions(onStop func(playback.StopReason)) []playback.Option {
	return []playback.Option{
		playback.WithBaseSteps(a.Cfg.Playback.BaseSteps),
		playback.WithStopListener(onStop),
	}
}
