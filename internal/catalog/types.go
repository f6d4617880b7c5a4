package catalog

// Category groups activities by setting. CategoryAll is the "no filter"
// value and is never assigned to an activity.
type Category string

const (
	CategoryAll      Category = "All"
	CategoryIndoor   Category = "Indoor"
	CategoryCreative Category = "Creative"
	CategorySocial   Category = "Social"
	CategoryPhysical Category = "Physical"
)

// Categories lists the assignable categories in display order.
var Categories = []Category{CategoryIndoor, CategoryCreative, CategorySocial, CategoryPhysical}

type Mood string

const (
	MoodBored     Mood = "Bored"
	MoodEnergetic Mood = "Energetic"
	MoodStressed  Mood = "Stressed"
)

var Moods = []Mood{MoodBored, MoodEnergetic, MoodStressed}

type Intensity string

const (
	IntensityLow    Intensity = "Low"
	IntensityMedium Intensity = "Medium"
	IntensityHigh   Intensity = "High"
)

var Intensities = []Intensity{IntensityLow, IntensityMedium, IntensityHigh}

// DurationChoices are the time-available options offered to the user, in
// minutes. Any positive ceiling is accepted by Filter.
var DurationChoices = []int{15, 30, 60, 120}

// Activity is one immutable catalog entry. Duration is in minutes.
type Activity struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	Moods     []Mood    `json:"mood"`
	Duration  int       `json:"duration"`
	Emoji     string    `json:"emoji"`
	Intensity Intensity `json:"intensity"`
}

// Clone returns a copy of a that shares no memory with it.
func (a Activity) Clone() Activity {
	a.Moods = append([]Mood(nil), a.Moods...)
	return a
}

// HasMood reports whether m is one of the activity's moods.
func (a Activity) HasMood(m Mood) bool {
	for _, am := range a.Moods {
		if am == m {
			return true
		}
	}
	return false
}

// FilterSpec selects a subset of the catalog. The zero value matches
// everything: an empty Category behaves like CategoryAll, an empty Mood
// means no mood filter and MaxDuration <= 0 means no time ceiling.
type FilterSpec struct {
	Category    Category `json:"category"`
	Mood        Mood     `json:"mood,omitempty"`
	MaxDuration int      `json:"max_duration,omitempty"`
}

// NoFilter returns the spec that matches the whole catalog.
func NoFilter() FilterSpec {
	return FilterSpec{Category: CategoryAll}
}

// IsZero reports whether spec applies no constraint at all.
func (f FilterSpec) IsZero() bool {
	return (f.Category == "" || f.Category == CategoryAll) && f.Mood == "" && f.MaxDuration <= 0
}
