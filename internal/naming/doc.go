// Package naming turns noisy release filenames into structured media
// identities and maps those identities to canonical library paths.
//
// Parsing is an ordered rule table (first match wins) applied after unicode
// normalization and indexer-prefix stripping. Two MediaGrammar
// implementations, TV and Movie, bundle the rules, the destination builders,
// the folder recognizers, and the extension sets for each media kind; callers
// pick one with ForKind and never branch on kind themselves.
//
// Everything here is pure: no function in this package touches the
// filesystem.
package naming
