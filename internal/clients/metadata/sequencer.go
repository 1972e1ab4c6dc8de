package metadata

import "time"

// requestSequencer serializes requests to a provider that enforces a minimum
// spacing between calls. Jobs run one at a time in submission order; the next
// job starts no sooner than interval after the previous one completed. The
// gate is timestamp based, so only the sequencer's own goroutine ever waits.
type requestSequencer struct {
	jobs     chan func()
	interval time.Duration
}

func newRequestSequencer(interval time.Duration) *requestSequencer {
	s := &requestSequencer{
		jobs:     make(chan func(), 32),
		interval: interval,
	}
	go s.run()
	return s
}

func (s *requestSequencer) run() {
	var last time.Time
	for job := range s.jobs {
		if wait := s.interval - time.Since(last); wait > 0 {
			time.Sleep(wait)
		}
		job()
		last = time.Now()
	}
}

func (s *requestSequencer) enqueue(job func()) {
	s.jobs <- job
}
