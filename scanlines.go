package stripekit

import (
	"bufio"
	"io"
	"strings"
)

// scanlines will scan in the lines from the given io.Reader, and pass each
// line it successfully scans into the given callback. Leading and trailing
// whitespace is trimmed, blank lines and comments (lines prefixed with #)
// are skipped.
func scanlines(rd io.Reader, fn func(string)) error {
	sc := bufio.NewScanner(rd)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fn(line)
	}
	return sc.Err()
}
