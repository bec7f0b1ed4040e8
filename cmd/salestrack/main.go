package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	lib "github.com/theoremus-urban-solutions/salestrack"
	"github.com/theoremus-urban-solutions/salestrack/config"
	"github.com/theoremus-urban-solutions/salestrack/detail"
	"github.com/theoremus-urban-solutions/salestrack/playback"
	"github.com/theoremus-urban-solutions/salestrack/render"
	"github.com/theoremus-urban-solutions/salestrack/simulator"
	"github.com/theoremus-urban-solutions/salestrack/tracking"
	"github.com/theoremus-urban-solutions/salestrack/window"
)

func main() {
	mode := flag.String("mode", "serve", "serve|oneshot")
	format := flag.String("format", "json", "oneshot output: json|pb")
	agentID := flag.Int("agent", 1, "agent id to play back (oneshot)")
	history := flag.String("history", "", "recorded history JSON file or URL (oneshot; default: simulated)")
	start := flag.String("start", "", "window start HH:MM (oneshot)")
	end := flag.String("end", "", "window end HH:MM (oneshot)")
	speed := flag.Float64("speed", 1, "playback speed multiplier (oneshot)")
	direction := flag.String("direction", "forward", "forward|backward (oneshot)")
	flag.Parse()

	lib.InitLogging()
	if err := config.LoadAppConfig(); err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg := config.Config

	switch *mode {
	case "serve":
		app := lib.NewApp(cfg)
		ctx, stop := context.WithCancel(context.Background())
		go func() {
			if err := app.RunSimulator(ctx); err != nil {
				log.Printf("[simulator] %v", err)
			}
		}()
		lib.StartServer(app)
		lib.HandleGracefulShutdown(stop)
	case "oneshot":
		opts := oneshotOptions{
			agentID: *agentID, history: *history, start: *start, end: *end,
			speed: *speed, direction: *direction, format: *format,
		}
		if err := runOneshot(cfg, opts); err != nil {
			log.Fatalf("oneshot: %v", err)
		}
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

type oneshotOptions struct {
	agentID    int
	history    string
	start, end string
	speed      float64
	direction  string
	format     string
}

// runOneshot plays one agent's filtered history to the end without a clock and
// prints every marker position, or the final GTFS-RT feed.
func runOneshot(cfg config.AppConfig, o oneshotOptions) error {
	store := tracking.NewStore()
	if o.history != "" {
		samples, err := newFetcher().fetchHistory(o.history)
		if err != nil {
			return err
		}
		store.Add(tracking.Agent{ID: o.agentID, Name: fmt.Sprintf("agent-%d", o.agentID)}, samples)
	} else {
		simulator.NewGenerator(cfg.Simulator).Populate(store, cfg.Agents, time.Now())
	}
	agent, ok := store.Agent(o.agentID)
	if !ok {
		return fmt.Errorf("agent %d: %w", o.agentID, tracking.ErrUnknownAgent)
	}

	dir := playback.Forward
	if o.direction == "backward" {
		dir = playback.Backward
	}

	rec := render.NewRecorder()
	feed := render.NewFeedAdapter(agent.Agent)
	sched := playback.NewManualScheduler()
	view, err := detail.Open(store, o.agentID, sched, render.Multi{rec, feed},
		playback.WithBaseSteps(cfg.Playback.BaseSteps), playback.WithSpeed(o.speed))
	if err != nil {
		return err
	}
	defer view.Close()

	if o.start != "" || o.end != "" {
		s, e := window.Midnight, window.LastMinute
		if o.start != "" {
			if s, err = window.ParseClock(o.start); err != nil {
				return err
			}
		}
		if o.end != "" {
			if e, err = window.ParseClock(o.end); err != nil {
				return err
			}
		}
		view.SetWindow(s, e)
	}
	if dir == playback.Backward {
		view.Engine().Seek(len(view.Path()) - 1)
	}
	view.Play(dir)
	ticks := sched.Drain(1 << 20)
	log.Printf("[oneshot] agent %d: %d samples, %d ticks", o.agentID, len(view.Path()), ticks)

	switch o.format {
	case "pb":
		b, err := feed.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(b)
		return err
	default:
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(struct {
			Agent   tracking.Agent        `json:"agent"`
			Window  window.Window         `json:"window"`
			Points  []render.PointLabel   `json:"points"`
			Markers []tracking.Coordinate `json:"markers"`
		}{agent.Agent, view.Window(), rec.Points(), rec.Markers()})
	}
}
