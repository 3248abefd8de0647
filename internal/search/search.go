// Package search provides the line matcher.
// It scans file contents line by line and returns the lines containing a query,
// either byte-exact or after lowercasing both sides.
package search

import (
	"strings"
)

// Mode selects how a query is compared against each line.
type Mode int

const (
	// CaseSensitive compares query and line byte for byte.
	CaseSensitive Mode = iota
	// CaseInsensitive lowercases query and line before comparing.
	CaseInsensitive
)

// String returns the mode name used in log output.
func (m Mode) String() string {
	switch m {
	case CaseSensitive:
		return "case-sensitive"
	case CaseInsensitive:
		return "case-insensitive"
	default:
		return "unknown"
	}
}

// Lines splits contents into lines.
// A line ends at "\n" or "\r\n"; a trailing line break does not produce an
// empty final line. A "\r" not followed by "\n" stays part of the line.
// The returned strings share memory with contents.
func Lines(contents string) []string {
	var lines []string
	for len(contents) > 0 {
		i := strings.IndexByte(contents, '\n')
		if i < 0 {
			lines = append(lines, contents)
			break
		}
		lines = append(lines, strings.TrimSuffix(contents[:i], "\r"))
		contents = contents[i+1:]
	}
	return lines
}

// Search returns the lines of contents that contain query, in order.
func Search(query, contents string) []string {
	var results []string
	for _, line := range Lines(contents) {
		if strings.Contains(line, query) {
			results = append(results, line)
		}
	}
	return results
}

// SearchCaseInsensitive returns the lines of contents that contain query
// when both are lowercased. The original, unlowered lines are returned.
func SearchCaseInsensitive(query, contents string) []string {
	query = strings.ToLower(query)

	var results []string
	for _, line := range Lines(contents) {
		if strings.Contains(strings.ToLower(line), query) {
			results = append(results, line)
		}
	}
	return results
}

// Find dispatches to Search or SearchCaseInsensitive according to mode.
func Find(mode Mode, query, contents string) []string {
	if mode == CaseInsensitive {
		return SearchCaseInsensitive(query, contents)
	}
	return Search(query, contents)
}
