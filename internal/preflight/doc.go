// Package preflight provides readiness checks for the paths and external
// services cleanmedia depends on.
//
// These checks run in two contexts:
//   - "cleanmedia run --commit" calls CheckDirectoryAccess on the library root
//     before any file is touched.
//   - "cleanmedia check" calls RunAll to display every check.
//
// Each check is gated by its config toggle -- disabled features are skipped.
package preflight
