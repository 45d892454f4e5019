package ddc

import (
	"regexp"
	"strconv"
	"strings"
)

// ddccontrol prints the current level in one of two shapes depending on
// version and verbosity:
//
//	Control 0x10: +/70/100 [Brightness]
//	 > current value = 42
var (
	slashPattern   = regexp.MustCompile(`\+/(\d+)/(\d+)`)
	currentPattern = regexp.MustCompile(`current\s+value\s*=\s*(\d+)`)
)

// parseLevel scans tool output for a brightness level. The first line
// matching either known pattern wins.
func parseLevel(output string) (int, bool) {
	for _, line := range strings.Split(output, "\n") {
		if m := slashPattern.FindStringSubmatch(line); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return v, true
			}
		}
		if m := currentPattern.FindStringSubmatch(line); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}
