package models

import "strconv"

// MovieID and SeriesID are TMDb-native integer identifiers. Zero means the id
// has not been resolved yet; a zero id must never be used as a favorite key.
type MovieID int

type SeriesID int

// ArtistID and AlbumID are MusicBrainz MBIDs. They are opaque strings and are
// never convertible to the integer id space.
type ArtistID string

type AlbumID string

// IMDbID is the external string id used by OMDb, e.g. "tt1234567".
type IMDbID string

// Derived strips the two-character prefix and parses the remainder as an
// integer ("tt1234567" -> 1234567). The result is not a provider key; it is
// only valid for in-process favorite matching. Returns 0 when the id cannot
// be derived.
func (id IMDbID) Derived() int {
	if len(id) <= 2 {
		return 0
	}
	n, err := strconv.Atoi(string(id)[2:])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
