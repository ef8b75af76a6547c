// Package engine orchestrates a reconciliation run: it detects installed
// tools, resolves transport and scope per tool, merges the manifest's entry
// into each tool's configuration document and writes the result through the
// crash-safe guard.
//
// Tools are isolated from each other: a failure against one tool's document
// is recorded and the run continues with the next tool. A run never aborts
// halfway through a single file write; the guard restores the original
// document whenever a written file fails re-validation.
package engine
