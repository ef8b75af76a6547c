// Package cli provides the presentation layer shared by all commands:
// output format selection (table, json, yaml), table rendering for
// detection and run results, interactive confirmation prompts and
// user-facing error formatting.
//
// Commands decide WHAT to show; this package decides HOW it looks, so the
// same result renders consistently across apply, remove, detect and status.
package cli
