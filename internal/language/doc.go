// Package language maps language codes and words found in subtitle filenames
// to the tags written into canonical sidecar names, and implements the
// filename heuristic that decides whether a subtitle is English.
package language
