package store

import "fmt"

// Movie is a catalog entry. Year and IMDbRating are pointers so that an
// absent value round-trips as JSON null, matching the on-disk format.
type Movie struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Year       *int     `json:"year"`
	Genre      string   `json:"genre"`
	Director   string   `json:"director"`
	Plot       string   `json:"plot"`
	Poster     string   `json:"poster"`
	IMDbID     string   `json:"imdb_id"`
	IMDbRating *float64 `json:"imdb_rating"`
	CreatedAt  string   `json:"created_at"`
}

func (m Movie) validate() error {
	if m.ID == "" {
		return fmt.Errorf("movie record missing id")
	}
	if m.Title == "" {
		return fmt.Errorf("movie record %s missing title", m.ID)
	}
	return nil
}

// CustomList is a user-defined, ordered collection of movie references.
type CustomList struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MovieIDs    []string `json:"movie_ids"`
	CreatedAt   string   `json:"created_at"`
}

func (l CustomList) validate() error {
	if l.ID == "" {
		return fmt.Errorf("list record missing id")
	}
	if l.Name == "" {
		return fmt.Errorf("list record %s missing name", l.ID)
	}
	return nil
}

// MovieInput carries the caller-supplied fields for a new movie. The id and
// creation timestamp are always assigned server-side.
type MovieInput struct {
	Title      string   `json:"title"`
	Year       *int     `json:"year"`
	Genre      string   `json:"genre"`
	Director   string   `json:"director"`
	Plot       string   `json:"plot"`
	Poster     string   `json:"poster"`
	IMDbID     string   `json:"imdb_id"`
	IMDbRating *float64 `json:"imdb_rating"`
}

// MovieUpdate is a partial update: nil means "leave the field untouched".
// A consequence is that a field cannot be explicitly cleared; null and
// absent are indistinguishable after decoding.
type MovieUpdate struct {
	Title      *string  `json:"title"`
	Year       *int     `json:"year"`
	Genre      *string  `json:"genre"`
	Director   *string  `json:"director"`
	Plot       *string  `json:"plot"`
	Poster     *string  `json:"poster"`
	IMDbID     *string  `json:"imdb_id"`
	IMDbRating *float64 `json:"imdb_rating"`
}

// ListInput carries the caller-supplied fields for a new list. Lists always
// start with no movie references.
type ListInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListUpdate is a partial update with the same semantics as MovieUpdate.
type ListUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
