package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MathieuSim0/EpiKodi/internal/models"
)

func TestOMDbSearchSplitsMixedResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("s") != "matrix" {
			t.Errorf("unexpected search query %q", r.URL.Query().Get("s"))
		}
		if r.URL.Query().Get("apikey") != "key" {
			t.Errorf("missing api key")
		}
		w.Write([]byte(`{"Response":"True","Search":[
			{"Title":"The Matrix","Year":"1999","imdbID":"tt0000042","Type":"movie","Poster":"m.jpg"},
			{"Title":"The Matrix Show","Year":"2005-2009","imdbID":"tt0000099","Type":"series","Poster":"s.jpg"},
			{"Title":"Matrix Game","Year":"2010","imdbID":"tt0000777","Type":"game"}
		]}`))
	}))
	defer server.Close()

	client := newOMDbClient(server.URL, "key", nil)
	movies, series, err := client.Search(context.Background(), "matrix")
	if err != nil {
		t.Fatal(err)
	}

	if len(movies) != 1 || len(series) != 1 {
		t.Fatalf("expected 1 movie and 1 series, got %d and %d", len(movies), len(series))
	}
	if movies[0].ID != 42 || movies[0].IMDbID != "tt0000042" {
		t.Errorf("unexpected movie ids %+v", movies[0])
	}
	if movies[0].ReleaseDate.Year != 1999 {
		t.Errorf("expected release year 1999, got %d", movies[0].ReleaseDate.Year)
	}
	if series[0].ID != 99 {
		t.Errorf("expected derived series id 99, got %d", series[0].ID)
	}
	if series[0].FirstAirDate.Year != 2005 {
		t.Errorf("expected first air year 2005, got %d", series[0].FirstAirDate.Year)
	}
}

func TestOMDbSearchNoResults(t *testing.T) {
	t.Run("upstream failure response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
		}))
		defer server.Close()

		client := newOMDbClient(server.URL, "key", nil)
		_, _, err := client.Search(context.Background(), "zzzz")
		if err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("only unknown types", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"Response":"True","Search":[{"Title":"Matrix Game","Year":"2010","imdbID":"tt0000777","Type":"game"}]}`))
		}))
		defer server.Close()

		client := newOMDbClient(server.URL, "key", nil)
		_, _, err := client.Search(context.Background(), "matrix")
		if !errors.Is(err, ErrNoResults) {
			t.Fatalf("expected ErrNoResults, got %v", err)
		}
	})
}

func TestOMDbGetDetailsMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("i") != "tt0000042" {
			t.Errorf("unexpected id %q", r.URL.Query().Get("i"))
		}
		if r.URL.Query().Get("plot") != "full" {
			t.Errorf("expected plot=full")
		}
		w.Write([]byte(`{"Response":"True","Type":"movie","Title":"The Matrix","Year":"1999",
			"Released":"31 Mar 1999","Runtime":"136 min","Genre":"Action, Sci-Fi",
			"Plot":"A hacker.","imdbRating":"8.7","imdbID":"tt0000042"}`))
	}))
	defer server.Close()

	client := newOMDbClient(server.URL, "key", nil)
	movie, series, err := client.GetDetails(context.Background(), "tt0000042")
	if err != nil {
		t.Fatal(err)
	}
	if series != nil {
		t.Fatal("expected no series for a movie response")
	}

	if movie.ID != 42 {
		t.Errorf("expected derived id 42, got %d", movie.ID)
	}
	if movie.ReleaseDate != models.NewDate(1999, time.March, 31) {
		t.Errorf("unexpected release date %s", movie.ReleaseDate)
	}
	if movie.Runtime != 136 {
		t.Errorf("expected runtime 136, got %d", movie.Runtime)
	}
	if movie.Rating != 8.7 {
		t.Errorf("expected rating 8.7, got %g", movie.Rating)
	}
	if len(movie.Genres) != 2 || movie.Genres[1] != "Sci-Fi" {
		t.Errorf("unexpected genres %v", movie.Genres)
	}
}

func TestOMDbGetDetailsSeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"True","Type":"series","Title":"The Matrix Show","Year":"2005-2009",
			"Released":"N/A","Runtime":"N/A","Genre":"Drama","Plot":"p",
			"imdbRating":"N/A","imdbID":"tt0000099","totalSeasons":"4"}`))
	}))
	defer server.Close()

	client := newOMDbClient(server.URL, "key", nil)
	movie, series, err := client.GetDetails(context.Background(), "tt0000099")
	if err != nil {
		t.Fatal(err)
	}
	if movie != nil {
		t.Fatal("expected no movie for a series response")
	}

	if series.NumberOfSeasons != 4 {
		t.Errorf("expected 4 seasons, got %d", series.NumberOfSeasons)
	}
	if series.Rating != 0 {
		t.Errorf("expected N/A rating to parse as 0, got %g", series.Rating)
	}
	// Released is N/A, so the date falls back to January 1st of the first
	// year of the range.
	if series.FirstAirDate != models.NewDate(2005, time.January, 1) {
		t.Errorf("unexpected first air date %s", series.FirstAirDate)
	}
}

func TestOMDbGetDetailsUnknownType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Response":"True","Type":"game","Title":"Matrix Game","imdbID":"tt0000777"}`))
	}))
	defer server.Close()

	client := newOMDbClient(server.URL, "key", nil)
	if _, _, err := client.GetDetails(context.Background(), "tt0000777"); err == nil {
		t.Fatal("expected error for unknown result type")
	}
}

// Two async searches racing each other must each arrive tagged with their own
// token, regardless of which response returns first.
func TestOMDbAsyncOutOfOrderCompletion(t *testing.T) {
	releaseFirst := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("s") {
		case "slow":
			<-releaseFirst
			w.Write([]byte(`{"Response":"True","Search":[{"Title":"Slow","Year":"2001","imdbID":"tt0000001","Type":"movie"}]}`))
		case "fast":
			w.Write([]byte(`{"Response":"True","Search":[{"Title":"Fast","Year":"2002","imdbID":"tt0000002","Type":"movie"}]}`))
		}
	}))
	defer server.Close()

	client := newOMDbClient(server.URL, "key", nil)
	slowToken := client.SearchAsync("slow")
	fastToken := client.SearchAsync("fast")

	first := receiveMovies(t, client)
	close(releaseFirst)
	second := receiveMovies(t, client)

	if first.Token != fastToken {
		t.Errorf("first completion carries token %s, want the fast request's %s", first.Token, fastToken)
	}
	if second.Token != slowToken {
		t.Errorf("second completion carries token %s, want the slow request's %s", second.Token, slowToken)
	}
	if first.Movies[0].Title != "Fast" || second.Movies[0].Title != "Slow" {
		t.Errorf("payloads swapped: %q then %q", first.Movies[0].Title, second.Movies[0].Title)
	}
}

func receiveMovies(t *testing.T, client *OMDbClient) MovieListResult {
	t.Helper()
	select {
	case result := <-client.Movies():
		return result
	case e := <-client.Errors():
		t.Fatalf("unexpected error: %s", e.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for movie results")
	}
	return MovieListResult{}
}

func TestLenientParsing(t *testing.T) {
	if got := lenientFloat("N/A"); got != 0 {
		t.Errorf("lenientFloat(N/A) = %g", got)
	}
	if got := lenientFloat("8.8"); got != 8.8 {
		t.Errorf("lenientFloat(8.8) = %g", got)
	}
	if got := lenientInt("139"); got != 139 {
		t.Errorf("lenientInt(139) = %d", got)
	}
	if got := lenientInt(""); got != 0 {
		t.Errorf("lenientInt(empty) = %d", got)
	}
}
