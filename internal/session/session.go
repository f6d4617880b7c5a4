package session

import (
	"sync"

	"github.com/kalambet/whatnow/internal/catalog"
)

// ActivityPicker chooses one activity from a candidate set.
type ActivityPicker interface {
	Pick(candidates []catalog.Activity) (catalog.Activity, bool)
}

// FavoriteSet is the favorites state a Session reads and toggles.
// Implemented by favorites.Manager.
type FavoriteSet interface {
	Toggle(id int) []int
	IsFavorite(id int) bool
	List() []int
	Clear()
}

// Pick is the displayable selection state. A nil Activity means no
// activity matched the current filter.
type Pick struct {
	Activity   *catalog.Activity `json:"activity"`
	Favorite   bool              `json:"favorite"`
	Candidates int               `json:"candidates"`
}

// None reports whether the pick is the empty "no matching activity" state.
func (p Pick) None() bool { return p.Activity == nil }

// Session is the application state a host UI drives: the active filter,
// the candidates it selects, the current pick and the favorite set.
// The current pick only changes through SetFilter and Reroll.
type Session struct {
	catalog   []catalog.Activity
	picker    ActivityPicker
	favorites FavoriteSet

	mu         sync.Mutex
	filter     catalog.FilterSpec
	candidates []catalog.Activity
	current    *catalog.Activity
}

// New creates a Session with no filter applied and makes an initial pick.
func New(cat []catalog.Activity, p ActivityPicker, favs FavoriteSet) *Session {
	s := &Session{
		catalog:   cat,
		picker:    p,
		favorites: favs,
	}
	s.SetFilter(catalog.NoFilter())
	return s
}

// SetFilter applies spec, recomputes the candidates and picks again from them.
func (s *Session) SetFilter(spec catalog.FilterSpec) Pick {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = spec
	s.candidates = catalog.Filter(s.catalog, spec)
	s.repickLocked()
	return s.pickLocked()
}

// Reroll picks again from the current candidates. The result may equal the
// previous pick.
func (s *Session) Reroll() Pick {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.repickLocked()
	return s.pickLocked()
}

// Current returns the current pick without changing it.
func (s *Session) Current() Pick {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pickLocked()
}

func (s *Session) Filter() catalog.FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Candidates returns a copy of the activities matching the current filter.
func (s *Session) Candidates() []catalog.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.candidates)
}

// Catalog returns a copy of the full catalog the session filters.
func (s *Session) Catalog() []catalog.Activity {
	return cloneAll(s.catalog)
}

// Lookup finds a catalog activity by id.
func (s *Session) Lookup(id int) (catalog.Activity, bool) {
	a, ok := catalog.Lookup(s.catalog, id)
	return a.Clone(), ok
}

// ToggleFavorite flips id's favorite status and returns the updated set.
func (s *Session) ToggleFavorite(id int) []int {
	return s.favorites.Toggle(id)
}

// ClearFavorites empties the favorite set.
func (s *Session) ClearFavorites() {
	s.favorites.Clear()
}

func (s *Session) IsFavorite(id int) bool {
	return s.favorites.IsFavorite(id)
}

// Favorites returns the favorite activities in catalog order. IDs that no
// longer exist in the catalog are skipped.
func (s *Session) Favorites() []catalog.Activity {
	out := make([]catalog.Activity, 0)
	for _, a := range s.catalog {
		if s.favorites.IsFavorite(a.ID) {
			out = append(out, a.Clone())
		}
	}
	return out
}

func (s *Session) repickLocked() {
	a, ok := s.picker.Pick(s.candidates)
	if !ok {
		s.current = nil
		return
	}
	s.current = &a
}

func (s *Session) pickLocked() Pick {
	p := Pick{Candidates: len(s.candidates)}
	if s.current != nil {
		a := s.current.Clone()
		p.Activity = &a
		p.Favorite = s.favorites.IsFavorite(a.ID)
	}
	return p
}

func cloneAll(acts []catalog.Activity) []catalog.Activity {
	out := make([]catalog.Activity, len(acts))
	for i, a := range acts {
		out[i] = a.Clone()
	}
	return out
}
