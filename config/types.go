package config

// ServerConfig contains server configuration
type ServerConfig struct {
	Port int `yaml:"port" env:"SALESTRACK_PORT" validate:"gte=0,lte=65535"`
}

// SimulatorConfig controls the mock position producer
type SimulatorConfig struct {
	Seed             int64   `yaml:"seed" env:"SALESTRACK_SEED"`
	IntervalMS       int     `yaml:"intervalMS" validate:"gte=0"`
	MoveProbability  float64 `yaml:"moveProbability" validate:"gte=0,lte=1"`
	StepDegrees      float64 `yaml:"stepDegrees" validate:"gte=0"`
	HistoryStartHour int     `yaml:"historyStartHour" validate:"gte=0,lte=23"`
	HistoryEndHour   int     `yaml:"historyEndHour" validate:"gte=0,lte=24"`
	HistoryStepMin   int     `yaml:"historyStepMinutes" validate:"gte=0,lte=60"`
	Disabled         bool    `yaml:"disabled"`
}

// PlaybackConfig controls history animation
type PlaybackConfig struct {
	BaseSteps       float64   `yaml:"baseSteps" validate:"gte=0"`
	FrameIntervalMS int       `yaml:"frameIntervalMS" validate:"gte=0"`
	Speeds          []float64 `yaml:"speeds" validate:"dive,gt=0"`
}

// GeocoderConfig points at a Nominatim-compatible reverse geocoding endpoint
type GeocoderConfig struct {
	URL       string `yaml:"url" env:"SALESTRACK_GEOCODER_URL" validate:"omitempty,url"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
	UserAgent string `yaml:"userAgent"`
}

// AgentConfig seeds one tracked agent
type AgentConfig struct {
	ID   int     `yaml:"id" validate:"gt=0"`
	Name string  `yaml:"name" validate:"required"`
	Lat  float64 `yaml:"lat" validate:"latitude"`
	Lng  float64 `yaml:"lng" validate:"longitude"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Playback  PlaybackConfig  `yaml:"playback"`
	Geocoder  GeocoderConfig  `yaml:"geocoder"`
	Agents    []AgentConfig   `yaml:"agents" validate:"dive"`
}
