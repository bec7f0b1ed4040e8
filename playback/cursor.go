package playback

// Direction is the way the cursor travels along the path.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

func (d Direction) step() int {
	if d == Backward {
		return -1
	}
	return 1
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Backward {
		return Forward
	}
	return Backward
}

// Cursor is the engine's position within a path: the segment starting at Index
// and heading in Direction, with Progress in [0,1] along it.
type Cursor struct {
	Index     int       `json:"index"`
	Progress  float64   `json:"progress"`
	Direction Direction `json:"direction"`
}

// State is the engine's play/pause flag and speed multiplier.
type State struct {
	Playing bool    `json:"playing"`
	Speed   float64 `json:"speed"`
}

// StopReason tells a stop listener why playback went idle.
type StopReason int

const (
	// StopBoundary: the cursor reached the first or last sample.
	StopBoundary StopReason = iota
	// StopPaused: Pause or Toggle was called.
	StopPaused
	// StopReset: the path was replaced under a cursor it no longer fits, or Reset was called.
	StopReset
)

func (r StopReason) String() string {
	switch r {
	case StopBoundary:
		return "boundary"
	case StopPaused:
		return "paused"
	case StopReset:
		return "reset"
	default:
		return "unknown"
	}
}
