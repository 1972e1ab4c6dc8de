package player

// Noop tracks the commanded state without decoding anything. It stands in
// when no real playback engine is wired, so the rest of the application can
// drive the Player surface unconditionally.
type Noop struct {
	state  State
	volume int
	muted  bool
	status chan Status
}

func NewNoop() *Noop {
	return &Noop{
		volume: 100,
		status: make(chan Status, 8),
	}
}

func (p *Noop) Load(url string, kind Kind) {
	p.state = Stopped
	p.emit()
}

func (p *Noop) Play() {
	p.state = Playing
	p.emit()
}

func (p *Noop) Pause() {
	p.state = Paused
	p.emit()
}

func (p *Noop) Stop() {
	p.state = Stopped
	p.emit()
}

func (p *Noop) SetPosition(ms int64) {
	p.emit()
}

func (p *Noop) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	p.volume = volume
	p.emit()
}

func (p *Noop) SetMuted(muted bool) {
	p.muted = muted
	p.emit()
}

func (p *Noop) Status() <-chan Status {
	return p.status
}

func (p *Noop) emit() {
	select {
	case p.status <- Status{State: p.state, Volume: p.volume, Muted: p.muted}:
	default:
	}
}
