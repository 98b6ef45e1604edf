package metrics

import "strings"

// Select returns the indices of channels ending in suffix.
func Select(channels []string, suffix string) []int {
	idx := make([]int, 0)
	for i, c := range channels {
		if strings.HasSuffix(c, suffix) {
			idx = append(idx, i)
		}
	}
	return idx
}
