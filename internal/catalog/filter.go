package catalog

// Filter returns the activities in catalog that satisfy spec, preserving
// catalog order. The result is never nil; an empty slice means no activity
// matched and the caller decides how to present that.
func Filter(catalog []Activity, spec FilterSpec) []Activity {
	out := make([]Activity, 0, len(catalog))
	for _, a := range catalog {
		if Matches(a, spec) {
			out = append(out, a)
		}
	}
	return out
}

// Matches reports whether a passes all three predicates of spec.
func Matches(a Activity, spec FilterSpec) bool {
	if spec.Category != "" && spec.Category != CategoryAll && a.Category != spec.Category {
		return false
	}
	if spec.Mood != "" && !a.HasMood(spec.Mood) {
		return false
	}
	// The ceiling is "time available", so shorter activities still pass.
	if spec.MaxDuration > 0 && a.Duration > spec.MaxDuration {
		return false
	}
	return true
}

// Index maps activity IDs to activities.
func Index(catalog []Activity) map[int]Activity {
	idx := make(map[int]Activity, len(catalog))
	for _, a := range catalog {
		idx[a.ID] = a
	}
	return idx
}

// Lookup finds the activity with the given id.
func Lookup(catalog []Activity, id int) (Activity, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}
