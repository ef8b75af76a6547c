// Package logging provides a structured logging system for enlist with unified
// log handling and level filtering.
//
// The package is built on Go's standard slog package. All log entries carry a
// subsystem identifier so output can be filtered by the part of the engine
// that produced it (Detector, Codec, Guard, Engine, ...).
//
// # Usage
//
//	import "enlist/pkg/logging"
//
//	// Initialize with Info level logging to stderr
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Detector", "Found %d candidate tools", n)
//	logging.Debug("Codec", "Parsed %s in %s", path, elapsed)
//	logging.Error("Guard", err, "Restoring backup for %s", path)
//
// # Subsystem Organization
//
// Logs are organized by subsystem to enable filtering and categorization:
//
//   - **Bootstrap**: Application initialization and startup
//   - **Config**: Engine settings loading and validation
//   - **Manifest**: Manifest loading, validation, and generation
//   - **Detector**: Tool detection strategies
//   - **Codec**: Comment-tolerant JSON parsing and editing
//   - **Guard**: Backup, write, and validation lifecycle
//   - **Engine**: Reconciliation runs and per-tool state transitions
package logging
