package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ParseCategory parses a user-supplied category name case-insensitively.
// "", "all" and "any" mean no category filter and yield CategoryAll.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if isWildcard(s) {
		return CategoryAll, nil
	}
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	v, err := parseEnum("category", s, names)
	return Category(v), err
}

// ParseMood parses a user-supplied mood. "", "all" and "any" yield the
// empty Mood, meaning no mood filter.
func ParseMood(s string) (Mood, error) {
	s = strings.TrimSpace(s)
	if isWildcard(s) {
		return "", nil
	}
	names := make([]string, len(Moods))
	for i, m := range Moods {
		names[i] = string(m)
	}
	v, err := parseEnum("mood", s, names)
	return Mood(v), err
}

// ParseMaxDuration parses a time ceiling in minutes. An empty string means
// no ceiling and yields 0.
func ParseMaxDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if isWildcard(s) {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: must be a whole number of minutes", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid duration %d: must be positive", n)
	}
	return n, nil
}

// ParseFilter builds a FilterSpec from raw text inputs, as they arrive from
// query strings, flags or tool arguments.
func ParseFilter(category, mood, maxDuration string) (FilterSpec, error) {
	c, err := ParseCategory(category)
	if err != nil {
		return FilterSpec{}, err
	}
	m, err := ParseMood(mood)
	if err != nil {
		return FilterSpec{}, err
	}
	d, err := ParseMaxDuration(maxDuration)
	if err != nil {
		return FilterSpec{}, err
	}
	return FilterSpec{Category: c, Mood: m, MaxDuration: d}, nil
}

// Normalize validates the enum fields of a decoded FilterSpec and rewrites
// them to canonical casing.
func Normalize(spec FilterSpec) (FilterSpec, error) {
	c, err := ParseCategory(string(spec.Category))
	if err != nil {
		return FilterSpec{}, err
	}
	m, err := ParseMood(string(spec.Mood))
	if err != nil {
		return FilterSpec{}, err
	}
	if spec.MaxDuration < 0 {
		return FilterSpec{}, fmt.Errorf("invalid duration %d: must be positive", spec.MaxDuration)
	}
	return FilterSpec{Category: c, Mood: m, MaxDuration: spec.MaxDuration}, nil
}

func isWildcard(s string) bool {
	return s == "" || strings.EqualFold(s, "all") || strings.EqualFold(s, "any")
}

func parseEnum(kind, s string, valid []string) (string, error) {
	lower := strings.ToLower(s)
	for _, v := range valid {
		if strings.ToLower(v) == lower {
			return v, nil
		}
	}
	if near, ok := nearest(lower, valid); ok {
		return "", fmt.Errorf("unknown %s %q (did you mean %q?)", kind, s, near)
	}
	return "", fmt.Errorf("unknown %s %q (valid: %s)", kind, s, strings.Join(valid, ", "))
}

// nearest returns the closest valid value within an edit-distance budget
// that grows with the value's length.
func nearest(in string, valid []string) (string, bool) {
	best, bestDist := "", -1
	for _, v := range valid {
		d := levenshtein.ComputeDistance(in, strings.ToLower(v))
		if d > distanceLimit(len(v)) {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = v, d
		}
	}
	return best, bestDist >= 0
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
