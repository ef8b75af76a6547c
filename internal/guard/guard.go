// Package guard wraps configuration writes in backup-before /
// reparse-after / restore-on-failure logic, making every write self-healing
// against encoding bugs in an adapter.
//
// The sequence is: copy the target to a sibling backup, write the new
// content, re-read and validate it, then delete the backup. If validation
// fails the backup is restored and a CorruptWriteError is returned. If the
// process dies between the write and the validation a stale backup file is
// left behind. The engine does not attempt file locking against concurrent
// external writers.
package guard

import (
	"fmt"
	"os"
	"path/filepath"

	"enlist/pkg/logging"
)

// BackupSuffix is appended to the target path to form the backup path.
const BackupSuffix = ".enlist-backup"

// CorruptWriteError reports that a freshly written file failed validation and
// the original content was restored from backup.
type CorruptWriteError struct {
	Path   string
	Reason error
}

func (e *CorruptWriteError) Error() string {
	return fmt.Sprintf("written file %s failed validation (original restored from backup): %v", e.Path, e.Reason)
}

func (e *CorruptWriteError) Unwrap() error { return e.Reason }

// BackupPath returns the sibling backup path for a target file.
func BackupPath(path string) string { return path + BackupSuffix }

// Write replaces the file at path with newText under the guard sequence.
// validate is called with the re-read content; returning an error triggers
// the restore. Parent directories are created for documents that do not
// exist yet (no backup step then).
func Write(path, newText string, validate func(string) error) error {
	backup := BackupPath(path)
	hadOriginal := false

	if original, err := os.ReadFile(path); err == nil {
		hadOriginal = true
		if err := os.WriteFile(backup, original, 0o600); err != nil {
			return fmt.Errorf("creating backup %s: %w", backup, err)
		}
		logging.Debug("Guard", "Backed up %s", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading %s before write: %w", path, err)
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(newText), 0o644); err != nil {
		if hadOriginal {
			os.Remove(backup)
		}
		return fmt.Errorf("writing %s: %w", path, err)
	}

	written, err := os.ReadFile(path)
	if err == nil {
		err = validate(string(written))
	}
	if err != nil {
		if hadOriginal {
			if restoreErr := restore(path, backup); restoreErr != nil {
				logging.Error("Guard", restoreErr, "Restore of %s failed; backup left at %s", path, backup)
			} else {
				logging.Warn("Guard", "Validation failed for %s; original restored", path)
			}
		} else {
			os.Remove(path)
		}
		return &CorruptWriteError{Path: path, Reason: err}
	}

	if hadOriginal {
		if err := os.Remove(backup); err != nil {
			logging.Warn("Guard", "Could not remove backup %s: %v", backup, err)
		}
	}
	logging.Debug("Guard", "Wrote and validated %s", path)
	return nil
}

// RemoveFile deletes a document under the guard: the content is backed up
// first, the file removed, and the backup deleted. Restore on failure is not
// needed since removal either happens or it does not.
func RemoveFile(path string) error {
	original, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s before removal: %w", path, err)
	}
	backup := BackupPath(path)
	if err := os.WriteFile(backup, original, 0o600); err != nil {
		return fmt.Errorf("creating backup %s: %w", backup, err)
	}
	if err := os.Remove(path); err != nil {
		os.Remove(backup)
		return fmt.Errorf("removing %s: %w", path, err)
	}
	if err := os.Remove(backup); err != nil {
		logging.Warn("Guard", "Could not remove backup %s: %v", backup, err)
	}
	logging.Debug("Guard", "Removed %s", path)
	return nil
}

func restore(path, backup string) error {
	data, err := os.ReadFile(backup)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	return os.Remove(backup)
}
