package utils

import (
	"strconv"
	"strings"
)

// ParseFloat converts a query value to float64. An empty string is 0.
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// ParseLimit parses a positive result limit, returning def when s is empty or invalid.
func ParseLimit(s string, def int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
