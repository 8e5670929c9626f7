package utils

import "strings"

// ContainsFold reports whether substr is within s, ignoring case.
// An empty substr always matches.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
