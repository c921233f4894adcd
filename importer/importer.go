// Package importer implements bulk import of catalog titles into the store.
//
// Each requested id is resolved independently: an id that is already present
// (matched by external catalog id) is returned as-is, a fetch failure
// becomes an error entry, and neither aborts the rest of the batch.
package importer

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"filmoteca/imdb"
	"filmoteca/store"
)

// Catalog is the slice of the catalog client the importer needs.
type Catalog interface {
	GetTitle(ctx context.Context, imdbID string) (*imdb.Title, error)
}

// ImportError records a single id that could not be imported.
type ImportError struct {
	IMDbID string
	Err    error
}

// Error implements the error interface
func (e ImportError) Error() string {
	return fmt.Sprintf("failed to import %s: %v", e.IMDbID, e.Err)
}

func (e ImportError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a bulk import. Movies holds the created-or-
// existing records in input order; Errors holds the per-id failures. The
// batch as a whole never fails because some items did.
type Result struct {
	Movies []store.Movie
	Errors []ImportError
}

// Importer imports catalog titles into the store with bounded concurrency.
type Importer struct {
	store       *store.Store
	catalog     Catalog
	logger      zerolog.Logger
	concurrency int
}

// New creates an Importer. Concurrency below 1 is clamped to sequential.
func New(st *store.Store, catalog Catalog, logger zerolog.Logger, concurrency int) *Importer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Importer{
		store:       st,
		catalog:     catalog,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Run imports the given external ids. Duplicate input ids are collapsed;
// ids already present in the store are matched by their catalog id and
// returned without re-fetching.
func (im *Importer) Run(ctx context.Context, imdbIDs []string) Result {
	ids := dedupe(imdbIDs)
	if len(ids) == 0 {
		return Result{Movies: []store.Movie{}}
	}

	type itemResult struct {
		movie *store.Movie
		err   *ImportError
	}
	results := make([]itemResult, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(im.concurrency)

	// Serializes the check-then-create step so concurrent fetches of
	// distinct ids cannot race a duplicate past the dedup check.
	var mu sync.Mutex

	for i, id := range ids {
		g.Go(func() error {
			if m, ok := im.store.FindMovieByIMDbID(id); ok {
				results[i] = itemResult{movie: &m}
				return nil
			}

			title, err := im.catalog.GetTitle(ctx, id)
			if err != nil {
				im.logger.Warn().Err(err).Str("imdb_id", id).Msg("Failed to import title")
				results[i] = itemResult{err: &ImportError{IMDbID: id, Err: err}}
				return nil
			}

			mu.Lock()
			defer mu.Unlock()

			if m, ok := im.store.FindMovieByIMDbID(id); ok {
				results[i] = itemResult{movie: &m}
				return nil
			}

			m, err := im.store.CreateMovie(movieInput(title))
			if err != nil {
				im.logger.Error().Err(err).Str("imdb_id", id).Msg("Failed to persist imported title")
				results[i] = itemResult{err: &ImportError{IMDbID: id, Err: err}}
				return nil
			}
			results[i] = itemResult{movie: &m}
			return nil
		})
	}

	g.Wait()

	out := Result{Movies: []store.Movie{}}
	for _, r := range results {
		switch {
		case r.movie != nil:
			out.Movies = append(out.Movies, *r.movie)
		case r.err != nil:
			out.Errors = append(out.Errors, *r.err)
		}
	}

	im.logger.Info().
		Int("requested", len(ids)).
		Int("imported", len(out.Movies)).
		Int("failed", len(out.Errors)).
		Msg("Bulk import complete")

	return out
}

func movieInput(t *imdb.Title) store.MovieInput {
	return store.MovieInput{
		Title:      t.Title,
		Year:       t.Year,
		Genre:      t.Genre,
		Director:   t.Director,
		Plot:       t.Plot,
		Poster:     t.Poster,
		IMDbID:     t.IMDbID,
		IMDbRating: t.Rating,
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
