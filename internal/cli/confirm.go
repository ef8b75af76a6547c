package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm shows a yes/no prompt and reads one line. Only an explicit "y" or
// "yes" (case-insensitive) counts as approval; an empty line or EOF declines.
func Confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
