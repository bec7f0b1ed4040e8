package salestrack

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/salestrack/formatter"
	"github.com/theoremus-urban-solutions/salestrack/render"
	"github.com/theoremus-urban-solutions/salestrack/tracking"
	"github.com/theoremus-urban-solutions/salestrack/utils"
	"github.com/theoremus-urban-solutions/salestrack/window"
)

func (a *App) handleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, formatter.BuildCards(a.Store.Agents(), a.Geocoder.Lookup, a.now()))
}

func (a *App) handleAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := a.lookupAgent(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, formatter.BuildCard(agent, a.Geocoder.Lookup, a.now()))
}

type pathResponse struct {
	Agent    tracking.Agent      `json:"agent"`
	Window   window.Window       `json:"window"`
	Distance string              `json:"distance"`
	Path     []tracking.Sample   `json:"path"`
	Points   []render.PointLabel `json:"points"`
}

// handlePath returns the agent's log filtered by the start/end time of day.
func (a *App) handlePath(w http.ResponseWriter, r *http.Request) {
	agent, err := a.lookupAgent(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	win, _, err := parseWindow(q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, err)
		return
	}
	snap := agent.Log.Snapshot()
	path := win.Apply(snap)
	writeJSON(w, pathResponse{
		Agent:    agent.Agent,
		Window:   win.Clamp(snap),
		Distance: utils.PresentableDistance(utils.PathLengthKM(path)),
		Path:     path,
		Points:   render.Labels(path),
	})
}

func writeProtobuf(w http.ResponseWriter, m proto.Message) {
	b, err := proto.Marshal(m)
	if err != nil {
		writeError(w, fmt.Errorf("marshal feed: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	_, _ = w.Write(b)
}

func (a *App) handleAgentPositionPB(w http.ResponseWriter, r *http.Request) {
	agent, err := a.lookupAgent(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeProtobuf(w, render.SnapshotFeed([]tracking.AgentView{agent}, a.now()))
}

func (a *App) handleVehiclePositionsPB(w http.ResponseWriter, r *http.Request) {
	writeProtobuf(w, render.SnapshotFeed(a.Store.Agents(), a.now()))
}

func (a *App) handleVehicleMonitoringJSON(w http.ResponseWriter, r *http.Request) {
	a.writeVehicleMonitoring(w, "json")
}

func (a *App) handleVehicleMonitoringXML(w http.ResponseWriter, r *http.Request) {
	a.writeVehicleMonitoring(w, "xml")
}

// writeVehicleMonitoring serves the overview stamped with the newest sample
// time, so one build serves every request until the next append.
func (a *App) writeVehicleMonitoring(w http.ResponseWriter, format string) {
	epoch := a.Store.LatestEpoch()
	buf, err := a.overview.get(epoch, a.overview.memoKey("vm", format), func() ([]byte, error) {
		vm := formatter.BuildVehicleMonitoring(a.Store.Agents(), time.Unix(epoch, 0), a.Cfg.Simulator.IntervalMS)
		res := formatter.WrapVehicleMonitoringResponse(vm, epoch, "")
		rb := formatter.NewResponseBuilder()
		if format == "xml" {
			return rb.BuildXML(res), nil
		}
		return rb.BuildJSON(res)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if format == "xml" {
		w.Header().Set("Content-Type", "application/xml")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	_, _ = w.Write(buf)
}
