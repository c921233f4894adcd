package imdb

import "encoding/json"

// SearchResult is a single flattened title-search hit.
type SearchResult struct {
	IMDbID string `json:"imdb_id"`
	Title  string `json:"title"`
	Year   *int   `json:"year"`
	Poster string `json:"poster,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Title is the flattened representation of a catalog title, independent of
// the catalog's native nested JSON shape.
type Title struct {
	IMDbID   string   `json:"imdb_id"`
	Title    string   `json:"title"`
	Year     *int     `json:"year"`
	Genre    string   `json:"genre"`
	Director string   `json:"director"`
	Plot     string   `json:"plot"`
	Poster   string   `json:"poster"`
	Rating   *float64 `json:"imdb_rating"`
}

// Image is one entry from a title's image gallery.
type Image struct {
	URL    string `json:"url"`
	Width  *int   `json:"width"`
	Height *int   `json:"height"`
	Type   string `json:"type"`
}

// Video is one entry from a title's video list.
type Video struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Thumbnail      string `json:"thumbnail"`
	Width          *int   `json:"width"`
	Height         *int   `json:"height"`
	RuntimeSeconds *int   `json:"runtime_seconds"`
	EmbedURL       string `json:"embed_url"`
}

// Wire shapes. Fields that the remote serves inconsistently (numbers vs
// strings, strings vs objects) stay as json.RawMessage and are projected
// through the helpers in normalize.go.

type titleDoc struct {
	ID            string            `json:"id"`
	PrimaryTitle  string            `json:"primaryTitle"`
	OriginalTitle string            `json:"originalTitle"`
	StartYear     json.RawMessage   `json:"startYear"`
	Type          string            `json:"type"`
	PrimaryImage  *imageDoc         `json:"primaryImage"`
	Genres        []json.RawMessage `json:"genres"`
	Directors     []json.RawMessage `json:"directors"`
	Plot          string            `json:"plot"`
	Rating        *ratingDoc        `json:"rating"`
}

type imageDoc struct {
	URL    string `json:"url"`
	Width  *int   `json:"width"`
	Height *int   `json:"height"`
	Type   string `json:"type"`
}

type ratingDoc struct {
	AggregateRating json.RawMessage `json:"aggregateRating"`
}

type searchDoc struct {
	Titles []json.RawMessage `json:"titles"`
}

type imagesPageDoc struct {
	Images        []imageDoc `json:"images"`
	NextPageToken string     `json:"nextPageToken"`
}

type videoDoc struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	PrimaryImage   *imageDoc `json:"primaryImage"`
	Width          *int      `json:"width"`
	Height         *int      `json:"height"`
	RuntimeSeconds *int      `json:"runtimeSeconds"`
}

type videosDoc struct {
	Videos []videoDoc `json:"videos"`
}
