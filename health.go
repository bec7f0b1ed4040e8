package salestrack

import (
	"encoding/json"
	"net/http"
)

type healthResponse struct {
	Status            string `json:"status"`
	Agents            int    `json:"agents"`
	LatestSampleEpoch int64  `json:"latest_sample_epoch"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{
		Status:            "ok",
		Agents:            len(a.Store.Agents()),
		LatestSampleEpoch: a.Store.LatestEpoch(),
	}
	_ = json.NewEncoder(w).Encode(resp)
}
