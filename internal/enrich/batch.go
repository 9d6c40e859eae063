package enrich

import (
	"regexp"
	"strconv"
	"strings"
)

// Leading enumeration markers models and translators like to emit:
// "12. ", "12) ", "12: ", "- ", "* ".
var enumMarker = regexp.MustCompile(`^\s*(?:(\d{1,3})\s*[.):：]\s*|[-*]\s+)`)

// alignLines maps a multi-line batch response back onto n positions.
// Lines carrying a usable index go to that slot; unindexed lines fill
// the next empty slot in order. A short response leaves the tail empty;
// it never faults.
func alignLines(response string, n int) []string {
	out := make([]string, n)
	next := 0

	for _, raw := range strings.Split(response, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		idx := -1
		if m := enumMarker.FindStringSubmatch(line); m != nil {
			line = strings.TrimSpace(line[len(m[0]):])
			if m[1] != "" {
				if v, err := strconv.Atoi(m[1]); err == nil && v >= 1 && v <= n {
					idx = v - 1
				}
			}
		}
		if line == "" {
			continue
		}

		if idx >= 0 && out[idx] == "" {
			out[idx] = line
			if idx == next {
				next = nextEmpty(out, next)
			}
			continue
		}
		if next < n {
			out[next] = line
			next = nextEmpty(out, next)
		}
	}
	return out
}

func nextEmpty(out []string, from int) int {
	for i := from; i < len(out); i++ {
		if out[i] == "" {
			return i
		}
	}
	return len(out)
}

// batches splits indexes into groups of at most size.
func batches(indexes []int, size int) [][]int {
	if size <= 0 {
		size = 1
	}
	var out [][]int
	for len(indexes) > 0 {
		n := size
		if len(indexes) < n {
			n = len(indexes)
		}
		out = append(out, indexes[:n])
		indexes = indexes[n:]
	}
	return out
}
