package favorites

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MathieuSim0/EpiKodi/internal/models"
)

// document mirrors the on-disk JSON layout. Missing keys load as empty
// collections; unknown fields are ignored.
type document struct {
	Movies []models.Movie  `json:"movies"`
	Series []models.Series `json:"series"`
	Albums []models.Album  `json:"albums"`
}

// Store keeps the favorited movies, series and albums in memory, mirrored to
// a single JSON file. Entries are deduplicated by their identity key (integer
// id for movies/series, release id for albums) and kept in insertion order.
//
// The store is safe for concurrent use: an RWMutex guards the collections, so
// HTTP handlers and the file watcher may mutate and read simultaneously.
// OnChange callbacks must be registered before the store is shared.
//
// A failed write is reported on Errors() and leaves the in-memory state as
// mutated; memory and disk are then out of sync until the next successful
// persist.
type Store struct {
	path string

	mu     sync.RWMutex
	movies []models.Movie
	series []models.Series
	albums []models.Album

	onChange []func()
	errs     chan error
}

func NewStore(path string) *Store {
	s := &Store{
		path: path,
		errs: make(chan error, 8),
	}
	s.load()
	return s
}

// Errors delivers persistence failures. The channel is buffered and never
// blocks a mutation; unconsumed reports are dropped.
func (s *Store) Errors() <-chan error { return s.errs }

// OnChange registers a callback fired after every successful mutation.
// Callbacks run on the mutating goroutine, outside the store's lock.
func (s *Store) OnChange(fn func()) {
	s.onChange = append(s.onChange, fn)
}

func (s *Store) notify() {
	for _, fn := range s.onChange {
		fn()
	}
}

func (s *Store) report(err error) {
	select {
	case s.errs <- err:
	default:
	}
}

// AddMovie appends the movie unless one with the same id is already stored.
// A zero id is the "unresolved" sentinel and is never a valid favorite.
// Returns whether the movie was added.
func (s *Store) AddMovie(m models.Movie) bool {
	s.mu.Lock()
	if m.ID == 0 || s.containsMovieLocked(m.ID) {
		s.mu.Unlock()
		return false
	}
	s.movies = append(s.movies, m)
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return true
}

// RemoveMovie removes at most one entry. Removing an absent id is a no-op.
func (s *Store) RemoveMovie(id models.MovieID) bool {
	s.mu.Lock()
	for i, m := range s.movies {
		if m.ID == id {
			s.movies = append(s.movies[:i], s.movies[i+1:]...)
			s.persistLocked()
			s.mu.Unlock()

			s.notify()
			return true
		}
	}
	s.mu.Unlock()
	return false
}

func (s *Store) ContainsMovie(id models.MovieID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.containsMovieLocked(id)
}

func (s *Store) containsMovieLocked(id models.MovieID) bool {
	for _, m := range s.movies {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) AddSeries(sr models.Series) bool {
	s.mu.Lock()
	if sr.ID == 0 || s.containsSeriesLocked(sr.ID) {
		s.mu.Unlock()
		return false
	}
	s.series = append(s.series, sr)
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return true
}

func (s *Store) RemoveSeries(id models.SeriesID) bool {
	s.mu.Lock()
	for i, sr := range s.series {
		if sr.ID == id {
			s.series = append(s.series[:i], s.series[i+1:]...)
			s.persistLocked()
			s.mu.Unlock()

			s.notify()
			return true
		}
	}
	s.mu.Unlock()
	return false
}

func (s *Store) ContainsSeries(id models.SeriesID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.containsSeriesLocked(id)
}

func (s *Store) containsSeriesLocked(id models.SeriesID) bool {
	for _, sr := range s.series {
		if sr.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) AddAlbum(a models.Album) bool {
	s.mu.Lock()
	if a.ID == "" || s.containsAlbumLocked(a.ID) {
		s.mu.Unlock()
		return false
	}
	s.albums = append(s.albums, a)
	s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return true
}

func (s *Store) RemoveAlbum(id models.AlbumID) bool {
	s.mu.Lock()
	for i, a := range s.albums {
		if a.ID == id {
			s.albums = append(s.albums[:i], s.albums[i+1:]...)
			s.persistLocked()
			s.mu.Unlock()

			s.notify()
			return true
		}
	}
	s.mu.Unlock()
	return false
}

func (s *Store) ContainsAlbum(id models.AlbumID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.containsAlbumLocked(id)
}

func (s *Store) containsAlbumLocked(id models.AlbumID) bool {
	for _, a := range s.albums {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Movies returns the favorited movies in insertion order. The slice is a
// copy; mutating it does not touch the store.
func (s *Store) Movies() []models.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Movie, len(s.movies))
	copy(out, s.movies)
	return out
}

func (s *Store) Series() []models.Series {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Series, len(s.series))
	copy(out, s.series)
	return out
}

func (s *Store) Albums() []models.Album {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Album, len(s.albums))
	copy(out, s.albums)
	return out
}

// Persist writes all three collections to the favorites file via a temporary
// file and rename, so a crash mid-write cannot leave a truncated document.
// Failures are reported on Errors(); the in-memory state is not rolled back.
func (s *Store) Persist() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.persistLocked()
}

func (s *Store) persistLocked() {
	doc := document{
		Movies: s.movies,
		Series: s.series,
		Albums: s.albums,
	}
	if doc.Movies == nil {
		doc.Movies = []models.Movie{}
	}
	if doc.Series == nil {
		doc.Series = []models.Series{}
	}
	if doc.Albums == nil {
		doc.Albums = []models.Album{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		s.report(fmt.Errorf("failed to encode favorites: %w", err))
		return
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.report(fmt.Errorf("failed to create favorites directory: %w", err))
		return
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		s.report(fmt.Errorf("failed to write favorites file: %w", err))
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.report(fmt.Errorf("failed to replace favorites file: %w", err))
	}
}

// Reload re-reads the favorites file, replacing all in-memory state.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies, s.series, s.albums = nil, nil, nil
	s.loadLocked()
}

func (s *Store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
}

func (s *Store) loadLocked() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		// A missing file is a fresh install, not an error.
		if !os.IsNotExist(err) {
			s.report(fmt.Errorf("failed to read favorites file: %w", err))
		}
		return
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.report(fmt.Errorf("failed to decode favorites file: %w", err))
		return
	}
	s.movies = doc.Movies
	s.series = doc.Series
	s.albums = doc.Albums
}
