// Package classify assigns each file found under a library root a Role:
// video, sidecar, one of the delete categories, sample, or unknown.
//
// Rules are evaluated in a fixed priority order; the first that applies wins.
// Videos and sidecars additionally carry the media identity resolved from the
// filename, the parent folder, or (for subtitle folders) the grandparent.
package classify
