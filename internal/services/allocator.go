package services

import (
	"fmt"
	"regexp"
	"strconv"
)

// DefaultPadding is the zero-padded width of allocated sequence numbers.
const DefaultPadding = 3

// Allocate returns the next unused sequential name "prefix_NNN" (no
// extension) given the names already present in the output directory. Names
// of the form prefix_<digits> with an optional single extension contribute
// their number; the result is one past the maximum, or 1 when none match.
//
// Numbers wider than padding are written in full, so img_999 is followed by
// img_1000. Names stay unique; plain lexical sorting breaks at that boundary.
func Allocate(existing []string, prefix string, padding int) string {
	if padding < 1 {
		padding = 1
	}
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `_([0-9]+)(\.[^.]+)?$`)
	highest := 0
	for _, name := range existing {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// overflowing digit runs never collide with a smaller number
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s_%0*d", prefix, padding, highest+1)
}
