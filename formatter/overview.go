package formatter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/theoremus-urban-solutions/salestrack/siri"
	"github.com/theoremus-urban-solutions/salestrack/tracking"
	"github.com/theoremus-urban-solutions/salestrack/utils"
)

const (
	dataSource  = "salestrack"
	vehicleMode = "foot"
)

// BuildVehicleMonitoring publishes the latest position of every agent that has
// one. ValidUntil is one producer interval after now.
func BuildVehicleMonitoring(agents []tracking.AgentView, now time.Time, intervalMS int) siri.VehicleMonitoring {
	vm := siri.VehicleMonitoring{
		ResponseTimestamp: utils.Iso8601FromUnixSeconds(now.Unix()),
		ValidUntil:        utils.ValidUntilFrom(now.Unix(), intervalMS),
		VehicleActivity:   []siri.VehicleActivityEntry{},
	}
	for _, a := range agents {
		snap := a.Log.Snapshot()
		if len(snap) == 0 {
			continue
		}
		last := snap[len(snap)-1]
		lat, lng := last.Lat, last.Lng
		mvj := siri.MonitoredVehicleJourney{
			VehicleMode:       vehicleMode,
			PublishedLineName: a.Name,
			Monitored:         true,
			DataSource:        dataSource,
			VehicleLocation:   &siri.VehicleLocation{Latitude: &lat, Longitude: &lng},
			VehicleRef:        strconv.Itoa(a.ID),
		}
		if b, ok := lastBearing(snap); ok {
			mvj.Bearing = &b
		}
		vm.VehicleActivity = append(vm.VehicleActivity, siri.VehicleActivityEntry{
			RecordedAtTime:          utils.Iso8601FromUnixSeconds(last.Time.Unix()),
			ValidUntilTime:          utils.ValidUntilFrom(last.Time.Unix(), intervalMS),
			MonitoredVehicleJourney: mvj,
		})
	}
	return vm
}

// lastBearing is the heading of the most recent move. Stationary ticks are skipped.
func lastBearing(snap []tracking.Sample) (float64, bool) {
	last := snap[len(snap)-1]
	for i := len(snap) - 2; i >= 0; i-- {
		prev := snap[i]
		if prev.Lat != last.Lat || prev.Lng != last.Lng {
			return utils.BearingDegrees(prev.Lat, prev.Lng, last.Lat, last.Lng), true
		}
	}
	return 0, false
}

// AgentCard is the summary shown for one agent in the list view.
type AgentCard struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	Place       string   `json:"place,omitempty"`
	LastUpdated string   `json:"lastUpdated,omitempty"`
	SecondsAgo  int64    `json:"secondsAgo"`
	Samples     int      `json:"samples"`
	Travelled   string   `json:"travelled"`
}

// PlaceNamer resolves a coordinate to a place name, or "" when unknown.
type PlaceNamer func(lat, lng float64) string

// PlaceLabel returns name, or the raw coordinate when name is empty.
func PlaceLabel(name string, lat, lng float64) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("(%.4f, %.4f)", lat, lng)
}

// BuildCard summarizes one agent. places may be nil.
func BuildCard(a tracking.AgentView, places PlaceNamer, now time.Time) AgentCard {
	snap := a.Log.Snapshot()
	card := AgentCard{
		ID:        a.ID,
		Name:      a.Name,
		Samples:   len(snap),
		Travelled: utils.PresentableDistance(utils.PathLengthKM(snap)),
	}
	if len(snap) == 0 {
		return card
	}
	last := snap[len(snap)-1]
	lat, lng := last.Lat, last.Lng
	card.Lat, card.Lng = &lat, &lng
	card.LastUpdated = utils.LocalTimestamp(last.Time)
	card.SecondsAgo = utils.SecondsAgo(last.Time, now)

	var name string
	if places != nil {
		name = places(lat, lng)
	}
	card.Place = PlaceLabel(name, lat, lng)
	return card
}

// BuildCards summarizes every agent, keeping the store's order.
func BuildCards(agents []tracking.AgentView, places PlaceNamer, now time.Time) []AgentCard {
	cards := make([]AgentCard, 0, len(agents))
	for _, a := range agents {
		cards = append(cards, BuildCard(a, places, now))
	}
	return cards
}
