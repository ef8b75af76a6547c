// Package diffview renders human-readable unified diffs between the current
// content of a tool document and the content a write would produce. It is
// used for dry-run previews and interactive confirmation; it never performs
// the write itself.
package diffview

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Unified renders a unified diff between oldText and newText, labelled with
// the document path in the conventional a/ b/ form. An empty string means
// the contents are identical.
func Unified(path, oldText, newText string) (string, error) {
	if oldText == newText {
		return "", nil
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldText),
		B:        difflib.SplitLines(newText),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("rendering diff for %s: %w", path, err)
	}
	return text, nil
}
