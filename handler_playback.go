package salestrack

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/theoremus-urban-solutions/salestrack/detail"
	"github.com/theoremus-urban-solutions/salestrack/playback"
	"github.com/theoremus-urban-solutions/salestrack/render"
	"github.com/theoremus-urban-solutions/salestrack/tracking"
	"github.com/theoremus-urban-solutions/salestrack/window"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var commandValidator = validator.New()

// playbackCommand is a client message on the playback socket.
type playbackCommand struct {
	Type  string  `json:"type" validate:"required,oneof=playForward playBackward pause toggle setSpeed setWindow resetWindow state"`
	Speed float64 `json:"speed" validate:"required_if=Type setSpeed,gte=0"`
	Start string  `json:"start"`
	End   string  `json:"end"`
}

type positionMessage struct {
	Type string  `json:"type"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type pathMessage struct {
	Type string            `json:"type"`
	Path []tracking.Sample `json:"path"`
}

type pointsMessage struct {
	Type   string              `json:"type"`
	Points []render.PointLabel `json:"points"`
}

type stateMessage struct {
	Type      string        `json:"type"`
	Session   string        `json:"session"`
	Playing   bool          `json:"playing"`
	Speed     float64       `json:"speed"`
	Index     int           `json:"index"`
	Progress  float64       `json:"progress"`
	Direction string        `json:"direction"`
	Window    window.Window `json:"window"`
	PathLen   int           `json:"pathLen"`
}

type stoppedMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// playbackSession streams one agent's history playback over a websocket. It is
// the render adapter of its own detail view.
type playbackSession struct {
	id      string
	app     *App
	conn    *websocket.Conn
	writeMu sync.Mutex // gorilla/websocket allows one concurrent writer
	view    *detail.View
}

func (s *playbackSession) send(v any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(v); err != nil {
		log.Printf("[ws] session %s write: %v", s.id, err)
	}
}

func (s *playbackSession) SetMarkerPosition(lat, lng float64) {
	s.app.Metrics.PlaybackTicks.Inc()
	s.send(positionMessage{Type: "position", Lat: lat, Lng: lng})
}

func (s *playbackSession) DrawPath(path []tracking.Sample) {
	s.send(pathMessage{Type: "path", Path: path})
}

func (s *playbackSession) DrawPoints(points []render.PointLabel) {
	s.send(pointsMessage{Type: "points", Points: points})
}

func (s *playbackSession) onStop(reason playback.StopReason) {
	s.app.Metrics.PlaybackStops.WithLabelValues(reason.String()).Inc()
	s.send(stoppedMessage{Type: "stopped", Reason: reason.String()})
}

func (s *playbackSession) sendState() {
	eng := s.view.Engine()
	st, cur := eng.State(), eng.Cursor()
	s.send(stateMessage{
		Type:      "state",
		Session:   s.id,
		Playing:   st.Playing,
		Speed:     st.Speed,
		Index:     cur.Index,
		Progress:  cur.Progress,
		Direction: cur.Direction.String(),
		Window:    s.view.Window(),
		PathLen:   len(eng.Path()),
	})
}

func (s *playbackSession) sendError(err error) {
	s.send(errorMessage{Type: "error", Message: err.Error()})
}

// apply runs one client command against the view.
func (s *playbackSession) apply(cmd playbackCommand) error {
	if err := commandValidator.Struct(cmd); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}
	switch cmd.Type {
	case "playForward":
		s.view.Play(playback.Forward)
	case "playBackward":
		s.view.Play(playback.Backward)
	case "pause":
		s.view.Pause()
	case "toggle":
		s.view.Toggle()
	case "setSpeed":
		if !s.app.Cfg.Playback.SpeedAllowed(cmd.Speed) {
			return fmt.Errorf("unsupported speed %g", cmd.Speed)
		}
		if err := s.view.SetSpeed(cmd.Speed); err != nil {
			return err
		}
	case "setWindow":
		win, _, err := parseWindow(cmd.Start, cmd.End)
		if err != nil {
			return err
		}
		s.view.SetWindow(win.Start, win.End)
	case "resetWindow":
		s.view.ResetWindow()
	}
	return nil
}

// handlePlayback upgrades to a websocket and runs one playback session until
// the client goes away. Query parameters start, end and speed preset the view;
// play=forward|backward starts playing right away.
func (a *App) handlePlayback(w http.ResponseWriter, r *http.Request) {
	agent, err := a.lookupAgent(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	win, explicit, err := parseWindow(q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, err)
		return
	}
	speed, err := a.parseSpeed(q.Get("speed"))
	if err != nil {
		writeError(w, err)
		return
	}
	autoplay := q.Get("play")
	dir, err := parseDirection(autoplay)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade error: %v", err)
		return
	}
	defer conn.Close()

	sess := &playbackSession{id: uuid.NewString(), app: a, conn: conn}
	opts := append(a.playbackOptions(sess.onStop), playback.WithSpeed(speed))
	view, err := detail.Open(a.Store, agent.ID, a.newScheduler(), sess, opts...)
	if err != nil {
		sess.sendError(err)
		return
	}
	sess.view = view
	defer view.Close()
	if explicit {
		view.SetWindow(win.Start, win.End)
	}
	if autoplay != "" {
		view.Play(dir)
	}

	a.Metrics.ActiveSessions.Inc()
	defer a.Metrics.ActiveSessions.Dec()
	log.Printf("[ws] session %s opened for agent %d", sess.id, agent.ID)
	sess.sendState()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[ws] session %s closed: %v", sess.id, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		var cmd playbackCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			sess.sendError(fmt.Errorf("invalid JSON message: %w", err))
			continue
		}
		if err := sess.apply(cmd); err != nil {
			sess.sendError(err)
			continue
		}
		sess.sendState()
	}
}
