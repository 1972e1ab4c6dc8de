package player

// Kind selects the decode pipeline for a loaded URL.
type Kind int

const (
	Video Kind = iota
	Audio
)

type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Status is emitted by an implementation whenever playback advances: state
// transitions, position/duration updates, or a playback error.
type Status struct {
	State    State  `json:"state"`
	Position int64  `json:"position"` // milliseconds
	Duration int64  `json:"duration"` // milliseconds
	Volume   int    `json:"volume"`   // 0-100
	Muted    bool   `json:"muted"`
	Err      string `json:"error,omitempty"`
}

// Player is the playback engine contract. The engine is opaque to the rest
// of the application: nothing outside an implementation inspects decoding
// internals, only this surface.
type Player interface {
	Load(url string, kind Kind)
	Play()
	Pause()
	Stop()
	SetPosition(ms int64)
	SetVolume(volume int)
	SetMuted(muted bool)
	Status() <-chan Status
}
