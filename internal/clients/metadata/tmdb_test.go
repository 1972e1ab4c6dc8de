package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTMDbSearchMovies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("query") != "matrix" {
			t.Errorf("unexpected query %q", r.URL.Query().Get("query"))
		}
		if r.URL.Query().Get("language") != "fr-FR" {
			t.Errorf("unexpected language %q", r.URL.Query().Get("language"))
		}
		w.Write([]byte(`{"results":[
			{"id":603,"title":"The Matrix","overview":"A hacker.","poster_path":"/p.jpg","backdrop_path":"/b.jpg","release_date":"1999-03-31","vote_average":8.2},
			{"id":604,"title":"The Matrix Reloaded","release_date":"bogus"}
		]}`))
	}))
	defer server.Close()

	client := newTMDbClient(server.URL, "key", "fr-FR", nil)
	movies, err := client.SearchMovies(context.Background(), "matrix")
	if err != nil {
		t.Fatal(err)
	}

	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}
	if movies[0].ID != 603 || movies[0].Title != "The Matrix" {
		t.Errorf("unexpected first movie %+v", movies[0])
	}
	if movies[0].ReleaseDate.Year != 1999 {
		t.Errorf("expected release year 1999, got %d", movies[0].ReleaseDate.Year)
	}
	if movies[1].ReleaseDate.Valid() {
		t.Errorf("expected unparseable date to load as unknown, got %s", movies[1].ReleaseDate)
	}
}

func TestTMDbMovieDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":603,"title":"The Matrix","overview":"A hacker.","release_date":"1999-03-31","vote_average":8.2,"genres":[{"name":"Action"},{"name":"Science Fiction"}]}`))
	}))
	defer server.Close()

	client := newTMDbClient(server.URL, "key", "fr-FR", nil)
	movie, err := client.GetMovieDetails(context.Background(), 603)
	if err != nil {
		t.Fatal(err)
	}

	if movie.Title != "The Matrix" {
		t.Errorf("unexpected title %q", movie.Title)
	}
	if len(movie.Genres) != 2 || movie.Genres[0] != "Action" {
		t.Errorf("unexpected genres %v", movie.Genres)
	}
}

func TestTMDbCreditsCappedAtTen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cast":[
			{"name":"a1"},{"name":"a2"},{"name":"a3"},{"name":"a4"},{"name":"a5"},
			{"name":"a6"},{"name":"a7"},{"name":"a8"},{"name":"a9"},{"name":"a10"},
			{"name":"a11"},{"name":"a12"}
		]}`))
	}))
	defer server.Close()

	client := newTMDbClient(server.URL, "key", "fr-FR", nil)
	cast, err := client.GetMovieCredits(context.Background(), 603)
	if err != nil {
		t.Fatal(err)
	}

	if len(cast) != 10 {
		t.Fatalf("expected cast capped at 10, got %d", len(cast))
	}
	if cast[0].Name != "a1" || cast[9].Name != "a10" {
		t.Errorf("cap changed ordering: first %q last %q", cast[0].Name, cast[9].Name)
	}
}

func TestTMDbMovieTrailer(t *testing.T) {
	t.Run("picks first youtube trailer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[
				{"key":"clip1","site":"YouTube","type":"Clip"},
				{"key":"vim1","site":"Vimeo","type":"Trailer"},
				{"key":"yt1","site":"YouTube","type":"Trailer"},
				{"key":"yt2","site":"YouTube","type":"Trailer"}
			]}`))
		}))
		defer server.Close()

		client := newTMDbClient(server.URL, "key", "fr-FR", nil)
		url, err := client.GetMovieTrailer(context.Background(), 603)
		if err != nil {
			t.Fatal(err)
		}
		if url != "https://www.youtube.com/watch?v=yt1" {
			t.Errorf("unexpected trailer url %q", url)
		}
	})

	t.Run("no match yields empty string", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[{"key":"clip1","site":"YouTube","type":"Clip"}]}`))
		}))
		defer server.Close()

		client := newTMDbClient(server.URL, "key", "fr-FR", nil)
		url, err := client.GetMovieTrailer(context.Background(), 603)
		if err != nil {
			t.Fatal(err)
		}
		if url != "" {
			t.Errorf("expected empty url, got %q", url)
		}
	})
}

func TestTMDbErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTMDbClient(server.URL, "bad-key", "fr-FR", nil)
	if _, err := client.SearchMovies(context.Background(), "matrix"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

type mapCache struct {
	entries map[string][]byte
	puts    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(provider, key string) ([]byte, bool) {
	body, ok := c.entries[provider+"|"+key]
	return body, ok
}

func (c *mapCache) Put(provider, key string, body []byte) {
	c.entries[provider+"|"+key] = body
	c.puts++
}

func TestTMDbSearchUsesCache(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"results":[{"id":603,"title":"The Matrix"}]}`))
	}))
	defer server.Close()

	cache := newMapCache()
	client := newTMDbClient(server.URL, "key", "fr-FR", cache)

	for i := 0; i < 3; i++ {
		if _, err := client.SearchMovies(context.Background(), "matrix"); err != nil {
			t.Fatal(err)
		}
	}

	if hits != 1 {
		t.Errorf("expected 1 upstream hit, got %d", hits)
	}
	if cache.puts != 1 {
		t.Errorf("expected 1 cache write, got %d", cache.puts)
	}
}

func TestTMDbAsyncTokenCorrelation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"id":603,"title":"The Matrix"}]}`))
	}))
	defer server.Close()

	client := newTMDbClient(server.URL, "key", "fr-FR", nil)
	token := client.SearchMoviesAsync("matrix")
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	select {
	case result := <-client.Movies():
		if result.Token != token {
			t.Errorf("result token %s does not match request token %s", result.Token, token)
		}
		if len(result.Movies) != 1 {
			t.Errorf("expected 1 movie, got %d", len(result.Movies))
		}
	case e := <-client.Errors():
		t.Fatalf("unexpected error: %s", e.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async result")
	}
}

func TestImageURL(t *testing.T) {
	if got := ImageURL("/p.jpg"); got != "https://image.tmdb.org/t/p/w500/p.jpg" {
		t.Errorf("unexpected image url %q", got)
	}
	if got := ImageURL(""); got != "" {
		t.Errorf("expected empty url for empty path, got %q", got)
	}
}
