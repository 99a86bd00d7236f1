package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseNumRange parses a length range for candidate filtering. Accepted forms
// are "N" (exactly N), "MIN-MAX", "MIN-" (no upper bound) and "-MAX" (no
// lower bound). An unbounded side is returned as 0.
func ParseNumRange(rangeStr string) (min int, max int, err error) {
	rangeStr = strings.TrimSpace(rangeStr)
	if rangeStr == "" {
		return 0, 0, fmt.Errorf("number range is empty")
	}

	rangeArr := strings.Split(rangeStr, "-")
	rangeLen := len(rangeArr)
	if rangeLen > 2 {
		return 0, 0, fmt.Errorf("number range too large: expected max of (2) numbers, got (%d)", rangeLen)
	}

	min, err = parseBound(rangeArr[0])
	if err != nil {
		return 0, 0, err
	} else if rangeLen == 1 {
		return min, min, nil
	}

	max, err = parseBound(rangeArr[1])
	if err != nil {
		return 0, 0, err
	}

	if max != 0 && min > max {
		return 0, 0, fmt.Errorf("number range is inverted: %d > %d", min, max)
	}

	return min, max, nil
}

func parseBound(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return n, nil
}
