// Package imdb provides a client for the external movie catalog API
// (api.imdbapi.dev).
//
// The remote API serves deeply nested, loosely shaped JSON: titles may carry
// a primary or only an original name, years arrive as numbers or range-like
// strings, and list fields mix plain strings with objects. This package
// flattens all of that into the plain shapes the rest of the application
// works with (SearchResult, Title, Image, Video).
//
// # Usage
//
//	client := imdb.NewClient(logger, imdb.WithTimeout(15*time.Second))
//
//	results, err := client.Search(ctx, "blade runner")
//	title, err := client.GetTitle(ctx, "tt0083658")
//	images, err := client.GetImages(ctx, "tt0083658") // follows pagination
//	videos, err := client.GetVideos(ctx, "tt0083658")
//
// # Error Handling
//
// A remote 404 surfaces as ErrNotFound from GetTitle and as an empty slice
// from GetImages/GetVideos. Any other non-2xx response becomes an *APIError;
// transport failures and malformed JSON are returned wrapped. Calls are
// never retried.
package imdb
