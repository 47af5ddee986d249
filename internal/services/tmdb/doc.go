// Package tmdb resolves movie years through The Movie Database search API.
//
// The organizer consults it only for movie videos whose file and folder
// names carry no year. Lookups are rate limited and memoized per title, and
// any failure degrades to "not found" so a run never aborts on network
// trouble.
package tmdb
