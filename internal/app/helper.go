package app

import (
	"fmt"
	"io"
	"strings"
)

const fetchFailedMsg = "Failed to fetch data from Kubernetes."

// writeFetchFailure prints the collaborator's error text (if any) followed by
// the fixed failure line. Write errors are ignored; there is nothing left to do.
func writeFetchFailure(w io.Writer, stderr string) {
	if msg := strings.TrimRight(stderr, "\r\n"); msg != "" {
		fmt.Fprintf(w, "Error running kubectl command: %s\n", msg)
	}
	fmt.Fprintln(w, fetchFailedMsg)
}
