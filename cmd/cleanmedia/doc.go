// Package main hosts the cleanmedia CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration and logging once, then hands
// off to the organizer for runs and undos, the history store for past runs,
// and the drapto transcoder for already organized files.
package main
