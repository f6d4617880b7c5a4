package session

import (
	"io"
	"log/slog"
	"testing"

	"github.com/kalambet/whatnow/internal/catalog"
	"github.com/kalambet/whatnow/internal/favorites"
	"github.com/kalambet/whatnow/internal/picker"
	"github.com/kalambet/whatnow/internal/storage"
)

func scenarioCatalog() []catalog.Activity {
	return []catalog.Activity{
		{ID: 1, Name: "Walk", Category: catalog.CategoryPhysical, Moods: []catalog.Mood{catalog.MoodStressed}, Duration: 30, Intensity: catalog.IntensityMedium},
		{ID: 2, Name: "Read", Category: catalog.CategoryIndoor, Moods: []catalog.Mood{catalog.MoodBored}, Duration: 20, Intensity: catalog.IntensityLow},
	}
}

func newTestSession(t *testing.T, cat []catalog.Activity) (*Session, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	favs := favorites.NewManager(store, favorites.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	favs.Initialize()
	return New(cat, picker.NewSeeded(1), favs), store
}

// stubPicker always returns the first candidate.
type stubPicker struct{ calls int }

func (p *stubPicker) Pick(c []catalog.Activity) (catalog.Activity, bool) {
	p.calls++
	if len(c) == 0 {
		return catalog.Activity{}, false
	}
	return c[0], true
}

type memFavorites map[int]bool

func (m memFavorites) Toggle(id int) []int {
	m[id] = !m[id]
	return m.List()
}
func (m memFavorites) IsFavorite(id int) bool { return m[id] }
func (m memFavorites) Clear() {
	for id := range m {
		delete(m, id)
	}
}
func (m memFavorites) List() []int {
	var out []int
	for id, ok := range m {
		if ok {
			out = append(out, id)
		}
	}
	return out
}

func TestNew_PicksFromWholeCatalog(t *testing.T) {
	s, _ := newTestSession(t, scenarioCatalog())

	p := s.Current()
	if p.None() {
		t.Fatal("expected an initial pick")
	}
	if p.Candidates != 2 {
		t.Errorf("Candidates = %d, want 2", p.Candidates)
	}
	if !s.Filter().IsZero() {
		t.Errorf("initial filter = %+v, want no filter", s.Filter())
	}
}

func TestScenario_BoredAlwaysPicksRead(t *testing.T) {
	s, _ := newTestSession(t, scenarioCatalog())

	p := s.SetFilter(catalog.FilterSpec{Category: catalog.CategoryAll, Mood: catalog.MoodBored})
	if p.None() || p.Activity.ID != 2 {
		t.Fatalf("SetFilter pick = %+v, want id 2", p.Activity)
	}
	for i := 0; i < 20; i++ {
		p = s.Reroll()
		if p.None() || p.Activity.ID != 2 {
			t.Fatalf("reroll %d = %+v, want id 2", i, p.Activity)
		}
	}
}

func TestSetFilter_NoCandidates(t *testing.T) {
	s, _ := newTestSession(t, scenarioCatalog())

	p := s.SetFilter(catalog.FilterSpec{Category: catalog.CategorySocial})
	if !p.None() {
		t.Fatalf("pick = %+v, want none", p.Activity)
	}
	if p.Candidates != 0 {
		t.Errorf("Candidates = %d, want 0", p.Candidates)
	}
	if p = s.Reroll(); !p.None() {
		t.Errorf("Reroll on empty candidates = %+v, want none", p.Activity)
	}

	// Back to a non-empty filter: the pick reappears.
	if p = s.SetFilter(catalog.NoFilter()); p.None() {
		t.Error("expected a pick after clearing the filter")
	}
}

func TestReroll_UsesCurrentCandidates(t *testing.T) {
	sp := &stubPicker{}
	s := New(scenarioCatalog(), sp, memFavorites{})

	s.SetFilter(catalog.FilterSpec{Mood: catalog.MoodStressed})
	before := sp.calls
	p := s.Reroll()
	if sp.calls != before+1 {
		t.Errorf("picker calls = %d, want %d", sp.calls, before+1)
	}
	if p.Activity == nil || p.Activity.ID != 1 {
		t.Errorf("Reroll = %+v, want id 1", p.Activity)
	}
	if got := s.Candidates(); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("Candidates = %+v", got)
	}
}

func TestToggleFavorite_ReflectedInPick(t *testing.T) {
	s, store := newTestSession(t, scenarioCatalog())

	p := s.SetFilter(catalog.FilterSpec{Mood: catalog.MoodBored})
	if p.Favorite {
		t.Fatal("pick should not start as favorite")
	}

	ids := s.ToggleFavorite(2)
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("ToggleFavorite(2) = %v, want [2]", ids)
	}
	if !s.Current().Favorite {
		t.Error("current pick should now be a favorite")
	}
	if v, _, _ := store.GetItem(favorites.StorageKey); v != "[2]" {
		t.Errorf("persisted favorites = %q, want [2]", v)
	}

	favs := s.Favorites()
	if len(favs) != 1 || favs[0].ID != 2 {
		t.Errorf("Favorites() = %+v", favs)
	}

	s.ToggleFavorite(2)
	if s.IsFavorite(2) || s.Current().Favorite {
		t.Error("second toggle should remove the favorite")
	}
}

func TestFavorites_SkipsUnknownIDs(t *testing.T) {
	favs := memFavorites{2: true, 99: true}
	s := New(scenarioCatalog(), &stubPicker{}, favs)

	got := s.Favorites()
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Favorites() = %+v, want only id 2", got)
	}
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	s := New(scenarioCatalog(), &stubPicker{}, memFavorites{})

	p := s.Current()
	p.Activity.Name = "mutated"
	if s.Current().Activity.Name == "mutated" {
		t.Error("mutating a returned Pick changed session state")
	}
}

func TestReturnedActivities_DoNotAliasCatalog(t *testing.T) {
	s := New(scenarioCatalog(), &stubPicker{}, memFavorites{1: true})

	s.Catalog()[0].Moods[0] = catalog.MoodBored
	s.Candidates()[0].Moods[0] = catalog.MoodBored
	s.Favorites()[0].Moods[0] = catalog.MoodBored
	s.Current().Activity.Moods[0] = catalog.MoodBored
	looked, _ := s.Lookup(1)
	looked.Moods[0] = catalog.MoodBored

	a, _ := s.Lookup(1)
	if a.Moods[0] != catalog.MoodStressed {
		t.Errorf("catalog moods changed through a returned copy: %v", a.Moods)
	}
	if got := s.SetFilter(catalog.FilterSpec{Mood: catalog.MoodStressed}); got.None() || got.Activity.ID != 1 {
		t.Errorf("filter on Stressed = %+v, want id 1", got.Activity)
	}
}

func TestClearFavorites(t *testing.T) {
	s, store := newTestSession(t, scenarioCatalog())
	s.ToggleFavorite(1)
	s.ToggleFavorite(2)

	s.ClearFavorites()
	if len(s.Favorites()) != 0 {
		t.Errorf("Favorites() = %+v, want empty", s.Favorites())
	}
	if v, _, _ := store.GetItem(favorites.StorageKey); v != "[]" {
		t.Errorf("persisted favorites = %q, want []", v)
	}
}
