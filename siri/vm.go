package siri

// VehicleMonitoring represents the VehicleMonitoring delivery
type VehicleMonitoring struct {
	ResponseTimestamp string                 `json:"ResponseTimestamp"`
	ValidUntil        string                 `json:"ValidUntil,omitempty"`
	VehicleActivity   []VehicleActivityEntry `json:"VehicleActivity"`
}

// VehicleActivityEntry represents a single agent's activity
type VehicleActivityEntry struct {
	RecordedAtTime          string                  `json:"RecordedAtTime"`
	ValidUntilTime          string                  `json:"ValidUntilTime,omitempty"`
	MonitoredVehicleJourney MonitoredVehicleJourney `json:"MonitoredVehicleJourney"`
}

// MonitoredVehicleJourney describes where an agent is. Agents do not run
// scheduled journeys, so only the vehicle and location parts are filled in.
type MonitoredVehicleJourney struct {
	VehicleMode       string           `json:"VehicleMode,omitempty"`
	PublishedLineName string           `json:"PublishedLineName,omitempty"`
	OperatorRef       string           `json:"OperatorRef,omitempty"`
	Monitored         bool             `json:"Monitored"`
	DataSource        string           `json:"DataSource"`
	VehicleLocation   *VehicleLocation `json:"VehicleLocation"`
	Bearing           *float64         `json:"Bearing,omitempty"`
	VehicleRef        string           `json:"VehicleRef"`
}

// VehicleLocation represents the geographical location of an agent
type VehicleLocation struct {
	Latitude  *float64 `json:"Latitude"`
	Longitude *float64 `json:"Longitude"`
}
