package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// parseSelection turns "all", "none" or a list like "1,3,5-7" (1-based, as
// printed in the preview) into 0-based indices for a batch of n courses.
func parseSelection(input string, n int) ([]int, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	switch input {
	case "all", "":
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	case "none":
		return []int{}, nil
	}

	seen := make(map[int]bool)
	var indices []int
	add := func(num int) error {
		if num < 1 || num > n {
			return fmt.Errorf("course %d out of range (1-%d)", num, n)
		}
		if !seen[num-1] {
			seen[num-1] = true
			indices = append(indices, num-1)
		}
		return nil
	}

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q", part)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil || last < first {
				return nil, fmt.Errorf("invalid range %q", part)
			}
		}
		for num := first; num <= last; num++ {
			if err := add(num); err != nil {
				return nil, err
			}
		}
	}
	return indices, nil
}
