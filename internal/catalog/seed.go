package catalog

import (
	"errors"
	"fmt"
)

var seed = []Activity{
	{ID: 1, Name: "Go for a 30-minute walk", Category: CategoryPhysical, Moods: []Mood{MoodStressed, MoodEnergetic}, Duration: 30, Emoji: "🚶", Intensity: IntensityMedium},
	{ID: 2, Name: "Read a chapter of a book", Category: CategoryIndoor, Moods: []Mood{MoodBored, MoodStressed}, Duration: 20, Emoji: "📚", Intensity: IntensityLow},
	{ID: 3, Name: "Sketch something you can see from your window", Category: CategoryCreative, Moods: []Mood{MoodBored, MoodStressed}, Duration: 15, Emoji: "✏️", Intensity: IntensityLow},
	{ID: 4, Name: "Call a friend you haven't talked to in a while", Category: CategorySocial, Moods: []Mood{MoodBored}, Duration: 30, Emoji: "📞", Intensity: IntensityLow},
	{ID: 5, Name: "Do a bodyweight workout", Category: CategoryPhysical, Moods: []Mood{MoodEnergetic}, Duration: 30, Emoji: "💪", Intensity: IntensityHigh},
	{ID: 6, Name: "Cook a recipe you've never tried", Category: CategoryIndoor, Moods: []Mood{MoodBored, MoodEnergetic}, Duration: 60, Emoji: "🍳", Intensity: IntensityMedium},
	{ID: 7, Name: "Write a short story", Category: CategoryCreative, Moods: []Mood{MoodBored, MoodEnergetic}, Duration: 60, Emoji: "📝", Intensity: IntensityMedium},
	{ID: 8, Name: "Host a board game night", Category: CategorySocial, Moods: []Mood{MoodBored, MoodEnergetic}, Duration: 120, Emoji: "🎲", Intensity: IntensityMedium},
	{ID: 9, Name: "Stretch and breathe", Category: CategoryPhysical, Moods: []Mood{MoodStressed}, Duration: 15, Emoji: "🧘", Intensity: IntensityLow},
	{ID: 10, Name: "Tidy one drawer", Category: CategoryIndoor, Moods: []Mood{MoodStressed, MoodBored}, Duration: 15, Emoji: "🧹", Intensity: IntensityLow},
	{ID: 11, Name: "Learn a song on an instrument", Category: CategoryCreative, Moods: []Mood{MoodEnergetic}, Duration: 120, Emoji: "🎸", Intensity: IntensityMedium},
	{ID: 12, Name: "Go for a bike ride with a friend", Category: CategorySocial, Moods: []Mood{MoodEnergetic, MoodStressed}, Duration: 60, Emoji: "🚴", Intensity: IntensityHigh},
}

// Default returns the built-in catalog ordered by ID. Each call returns a
// fresh copy so callers cannot mutate the seed data.
func Default() []Activity {
	out := make([]Activity, len(seed))
	for i, a := range seed {
		out[i] = a.Clone()
	}
	return out
}

// Validate checks catalog invariants: unique IDs, a name, a known category
// and intensity, at least one known mood and a positive duration.
func Validate(catalog []Activity) error {
	var errs []error
	seen := make(map[int]bool, len(catalog))
	for _, a := range catalog {
		if seen[a.ID] {
			errs = append(errs, fmt.Errorf("activity %d: duplicate id", a.ID))
		}
		seen[a.ID] = true

		if a.Name == "" {
			errs = append(errs, fmt.Errorf("activity %d: empty name", a.ID))
		}
		if !validCategory(a.Category) {
			errs = append(errs, fmt.Errorf("activity %d: unknown category %q", a.ID, a.Category))
		}
		if !validIntensity(a.Intensity) {
			errs = append(errs, fmt.Errorf("activity %d: unknown intensity %q", a.ID, a.Intensity))
		}
		if len(a.Moods) == 0 {
			errs = append(errs, fmt.Errorf("activity %d: no moods", a.ID))
		}
		for _, m := range a.Moods {
			if !validMood(m) {
				errs = append(errs, fmt.Errorf("activity %d: unknown mood %q", a.ID, m))
			}
		}
		if a.Duration <= 0 {
			errs = append(errs, fmt.Errorf("activity %d: duration must be positive, got %d", a.ID, a.Duration))
		}
	}
	return errors.Join(errs...)
}

func validCategory(c Category) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func validMood(m Mood) bool {
	for _, v := range Moods {
		if v == m {
			return true
		}
	}
	return false
}

func validIntensity(i Intensity) bool {
	for _, v := range Intensities {
		if v == i {
			return true
		}
	}
	return false
}
