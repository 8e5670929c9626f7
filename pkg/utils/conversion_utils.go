package utils

import "strconv"

// QueryInt converts a query-string value to an int, returning fallback for empty or invalid input.
func QueryInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
