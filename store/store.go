package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	moviesFile = "movies.json"
	listsFile  = "lists.json"
)

// Store is a durable full mirror of the movie and list collections. Both
// collections live in memory and are rewritten to their backing JSON
// document on every mutation; there is no batching or partial update. A
// single RWMutex guards both collections, so the movie-delete cascade is
// atomic with respect to other store calls.
type Store struct {
	mu     sync.RWMutex
	dir    string
	movies map[string]Movie
	lists  map[string]CustomList
	logger zerolog.Logger
}

// Open creates the data directory if needed and loads both collections.
// A missing file means an empty collection; a malformed or shape-invalid
// record is an error, so corrupt data aborts startup instead of being
// silently dropped.
func Open(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		dir:    dir,
		movies: make(map[string]Movie),
		lists:  make(map[string]CustomList),
		logger: logger,
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) load() error {
	var movies []Movie
	if err := loadDocument(filepath.Join(s.dir, moviesFile), &movies); err != nil {
		return err
	}
	for _, m := range movies {
		if err := m.validate(); err != nil {
			return fmt.Errorf("corrupt record in %s: %w", moviesFile, err)
		}
		s.movies[m.ID] = m
	}

	var lists []CustomList
	if err := loadDocument(filepath.Join(s.dir, listsFile), &lists); err != nil {
		return err
	}
	for _, l := range lists {
		if err := l.validate(); err != nil {
			return fmt.Errorf("corrupt record in %s: %w", listsFile, err)
		}
		s.lists[l.ID] = l
	}

	s.logger.Debug().
		Int("movies", len(s.movies)).
		Int("lists", len(s.lists)).
		Str("dir", s.dir).
		Msg("Loaded data files")

	return nil
}

func loadDocument(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// saveMovies rewrites the whole movie document. Callers must hold the write
// lock.
func (s *Store) saveMovies() error {
	movies := make([]Movie, 0, len(s.movies))
	for _, m := range s.movies {
		movies = append(movies, m)
	}
	return writeDocument(filepath.Join(s.dir, moviesFile), movies)
}

// saveLists rewrites the whole list document. Callers must hold the write
// lock.
func (s *Store) saveLists() error {
	lists := make([]CustomList, 0, len(s.lists))
	for _, l := range s.lists {
		lists = append(lists, l)
	}
	return writeDocument(filepath.Join(s.dir, listsFile), lists)
}

func writeDocument(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}

// ---------------------------------------------------------------------------
// Movies
// ---------------------------------------------------------------------------

// Movies returns a snapshot of every movie. Order is unspecified.
func (s *Store) Movies() []Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()

	movies := make([]Movie, 0, len(s.movies))
	for _, m := range s.movies {
		movies = append(movies, m)
	}
	return movies
}

// Movie returns the movie with the given id.
func (s *Store) Movie(id string) (Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.movies[id]
	return m, ok
}

// FindMovieByIMDbID scans for a movie carrying the given external catalog id.
func (s *Store) FindMovieByIMDbID(imdbID string) (Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if imdbID == "" {
		return Movie{}, false
	}
	for _, m := range s.movies {
		if m.IMDbID == imdbID {
			return m, true
		}
	}
	return Movie{}, false
}

// CreateMovie stores a new movie, assigning its id and creation timestamp.
func (s *Store) CreateMovie(in MovieInput) (Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := Movie{
		ID:         uuid.NewString(),
		Title:      in.Title,
		Year:       in.Year,
		Genre:      in.Genre,
		Director:   in.Director,
		Plot:       in.Plot,
		Poster:     in.Poster,
		IMDbID:     in.IMDbID,
		IMDbRating: in.IMDbRating,
		CreatedAt:  now(),
	}
	s.movies[m.ID] = m

	if err := s.saveMovies(); err != nil {
		return Movie{}, err
	}
	return m, nil
}

// UpdateMovie merges the set fields of the update onto the existing record
// and re-persists. Returns ErrNotFound if the id is absent.
func (s *Store) UpdateMovie(id string, upd MovieUpdate) (Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.movies[id]
	if !ok {
		return Movie{}, ErrNotFound
	}

	if upd.Title != nil {
		m.Title = *upd.Title
	}
	if upd.Year != nil {
		m.Year = upd.Year
	}
	if upd.Genre != nil {
		m.Genre = *upd.Genre
	}
	if upd.Director != nil {
		m.Director = *upd.Director
	}
	if upd.Plot != nil {
		m.Plot = *upd.Plot
	}
	if upd.Poster != nil {
		m.Poster = *upd.Poster
	}
	if upd.IMDbID != nil {
		m.IMDbID = *upd.IMDbID
	}
	if upd.IMDbRating != nil {
		m.IMDbRating = upd.IMDbRating
	}

	s.movies[id] = m
	if err := s.saveMovies(); err != nil {
		return Movie{}, err
	}
	return m, nil
}

// DeleteMovie removes a movie and strips its id from every list. Both
// documents are rewritten before the call returns; the whole cascade runs
// under the write lock.
func (s *Store) DeleteMovie(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movies[id]; !ok {
		return ErrNotFound
	}
	delete(s.movies, id)

	for listID, l := range s.lists {
		if slices.Contains(l.MovieIDs, id) {
			l.MovieIDs = slices.DeleteFunc(slices.Clone(l.MovieIDs), func(mid string) bool {
				return mid == id
			})
			s.lists[listID] = l
		}
	}

	if err := s.saveMovies(); err != nil {
		return err
	}
	return s.saveLists()
}

// ---------------------------------------------------------------------------
// Lists
// ---------------------------------------------------------------------------

// Lists returns a snapshot of every list. Order is unspecified.
func (s *Store) Lists() []CustomList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lists := make([]CustomList, 0, len(s.lists))
	for _, l := range s.lists {
		lists = append(lists, listCopy(l))
	}
	return lists
}

// List returns the list with the given id.
func (s *Store) List(id string) (CustomList, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lists[id]
	if !ok {
		return CustomList{}, false
	}
	return listCopy(l), true
}

// CreateList stores a new list, assigning its id and creation timestamp.
func (s *Store) CreateList(in ListInput) (CustomList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := CustomList{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		MovieIDs:    []string{},
		CreatedAt:   now(),
	}
	s.lists[l.ID] = l

	if err := s.saveLists(); err != nil {
		return CustomList{}, err
	}
	return listCopy(l), nil
}

// UpdateList merges the set fields of the update onto the existing record
// and re-persists. Returns ErrNotFound if the id is absent.
func (s *Store) UpdateList(id string, upd ListUpdate) (CustomList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[id]
	if !ok {
		return CustomList{}, ErrNotFound
	}

	if upd.Name != nil {
		l.Name = *upd.Name
	}
	if upd.Description != nil {
		l.Description = *upd.Description
	}

	s.lists[id] = l
	if err := s.saveLists(); err != nil {
		return CustomList{}, err
	}
	return listCopy(l), nil
}

// DeleteList removes a list. Movies are unaffected.
func (s *Store) DeleteList(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lists[id]; !ok {
		return ErrNotFound
	}
	delete(s.lists, id)

	return s.saveLists()
}

// AddMovieToList appends the movie id to the list unless already present.
// Returns ErrNotFound if either the list or the movie does not exist. The
// document is rewritten only when a change occurred.
func (s *Store) AddMovieToList(listID, movieID string) (CustomList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[listID]
	if !ok {
		return CustomList{}, ErrNotFound
	}
	if _, ok := s.movies[movieID]; !ok {
		return CustomList{}, ErrNotFound
	}

	if !slices.Contains(l.MovieIDs, movieID) {
		l.MovieIDs = append(l.MovieIDs, movieID)
		s.lists[listID] = l
		if err := s.saveLists(); err != nil {
			return CustomList{}, err
		}
	}

	return listCopy(l), nil
}

// RemoveMovieFromList removes the movie id from the list. Removing an id
// that is not present is a no-op, not an error; only a missing list is.
func (s *Store) RemoveMovieFromList(listID, movieID string) (CustomList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[listID]
	if !ok {
		return CustomList{}, ErrNotFound
	}

	if slices.Contains(l.MovieIDs, movieID) {
		l.MovieIDs = slices.DeleteFunc(slices.Clone(l.MovieIDs), func(mid string) bool {
			return mid == movieID
		})
		s.lists[listID] = l
		if err := s.saveLists(); err != nil {
			return CustomList{}, err
		}
	}

	return listCopy(l), nil
}

// MoviesInList resolves a list's references to full movie records, in list
// order. Ids that no longer resolve are skipped.
func (s *Store) MoviesInList(listID string) ([]Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lists[listID]
	if !ok {
		return nil, ErrNotFound
	}

	movies := make([]Movie, 0, len(l.MovieIDs))
	for _, id := range l.MovieIDs {
		if m, ok := s.movies[id]; ok {
			movies = append(movies, m)
		}
	}
	return movies, nil
}

// listCopy returns a copy whose MovieIDs slice does not alias store state.
func listCopy(l CustomList) CustomList {
	l.MovieIDs = slices.Clone(l.MovieIDs)
	return l
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
