package salestrack

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/salestrack/playback"
	"github.com/theoremus-urban-solutions/salestrack/tracking"
	"github.com/theoremus-urban-solutions/salestrack/window"
)

// QueryError is a problem with request parameters. It maps to HTTP 400.
type QueryError struct{ Msg string }

func (e *QueryError) Error() string { return e.Msg }

func parseAgentID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, &QueryError{Msg: "Agent id must be a positive integer."}
	}
	return id, nil
}

// lookupAgent resolves the {id} path value. A missing agent is
// tracking.ErrUnknownAgent.
func (a *App) lookupAgent(r *http.Request) (tracking.AgentView, error) {
	id, err := parseAgentID(r.PathValue("id"))
	if err != nil {
		return tracking.AgentView{}, err
	}
	v, ok := a.Store.Agent(id)
	if !ok {
		return tracking.AgentView{}, tracking.ErrUnknownAgent
	}
	return v, nil
}

func parseClockParam(name, s string, fallback window.Clock) (window.Clock, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	c, err := window.ParseClock(s)
	if err != nil {
		return 0, &QueryError{Msg: name + " must be a time of day as HH:MM."}
	}
	return c, nil
}

// parseWindow reads start/end. A missing bound leaves that side open, which the
// filter clamps to the log's own range.
func parseWindow(start, end string) (window.Window, bool, error) {
	s, err := parseClockParam("start", start, window.Midnight)
	if err != nil {
		return window.Window{}, false, err
	}
	e, err := parseClockParam("end", end, window.LastMinute)
	if err != nil {
		return window.Window{}, false, err
	}
	explicit := strings.TrimSpace(start) != "" || strings.TrimSpace(end) != ""
	return window.Window{Start: s, End: e}, explicit, nil
}

func parseDirection(s string) (playback.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "forward":
		return playback.Forward, nil
	case "backward":
		return playback.Backward, nil
	}
	return playback.Forward, &QueryError{Msg: "direction must be forward or backward."}
}

func (a *App) parseSpeed(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !a.Cfg.Playback.SpeedAllowed(v) {
		return 0, &QueryError{Msg: "Unsupported speed: " + s}
	}
	return v, nil
}

func buildErrorPayload(msg string) []byte {
	type errorPayload struct {
		Error struct {
			Description string `json:"description"`
		} `json:"error"`
	}
	var e errorPayload
	e.Error.Description = msg
	b, _ := json.Marshal(e)
	return b
}

// writeError maps err to a status code and writes a JSON error payload.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var qe *QueryError
	switch {
	case errors.As(err, &qe):
		status = http.StatusBadRequest
	case errors.Is(err, tracking.ErrUnknownAgent):
		status = http.StatusNotFound
	default:
		log.Printf("request failed: %v", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buildErrorPayload(err.Error()))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}
