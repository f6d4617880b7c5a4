package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kalambet/whatnow/internal/catalog"
	"github.com/kalambet/whatnow/internal/favorites"
	"github.com/kalambet/whatnow/internal/picker"
	"github.com/kalambet/whatnow/internal/session"
	"github.com/kalambet/whatnow/internal/storage"
)

func newTestSession(t *testing.T) (*session.Session, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cat := catalog.Default()
	idx := catalog.Index(cat)
	favs := favorites.NewManager(store,
		favorites.WithKnownIDs(func(id int) bool { _, ok := idx[id]; return ok }),
		favorites.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	favs.Initialize()
	return session.New(cat, picker.NewSeeded(3), favs), store
}

func setupHandler(t *testing.T) (http.Handler, *session.Session, *storage.Store) {
	t.Helper()
	s, store := newTestSession(t)
	return NewHandler(Deps{Session: s}), s, store
}

func doReq(h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, url, reader))
	return rr
}

func decodePick(t *testing.T, rr *httptest.ResponseRecorder) session.Pick {
	t.Helper()
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rr.Code, rr.Body.String())
	}
	var p session.Pick
	if err := json.NewDecoder(rr.Body).Decode(&p); err != nil {
		t.Fatalf("decoding pick: %v", err)
	}
	return p
}

func TestHealth(t *testing.T) {
	h, _, _ := setupHandler(t)

	rr := doReq(h, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestRequestID_Propagates(t *testing.T) {
	h, _, _ := setupHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestListActivities_Filtered(t *testing.T) {
	h, _, _ := setupHandler(t)

	rr := doReq(h, http.MethodGet, "/activities?category=indoor&mood=bored&max_duration=30", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}

	var acts []ActivityView
	if err := json.NewDecoder(rr.Body).Decode(&acts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(acts) == 0 {
		t.Fatal("expected at least one indoor/bored activity under 30 minutes")
	}
	for _, a := range acts {
		if a.Category != catalog.CategoryIndoor || !a.HasMood(catalog.MoodBored) || a.Duration > 30 {
			t.Errorf("activity %+v does not match filter", a.Activity)
		}
	}
}

func TestListActivities_BadMood(t *testing.T) {
	h, _, _ := setupHandler(t)

	rr := doReq(h, http.MethodGet, "/activities?mood=stresed", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "did you mean") {
		t.Errorf("body = %s, want a suggestion", rr.Body.String())
	}
}

func TestSetFilter_AndSpin(t *testing.T) {
	h, _, _ := setupHandler(t)

	p := decodePick(t, doReq(h, http.MethodPut, "/filter", `{"category":"Physical","mood":"Stressed","max_duration":15}`))
	if p.Activity == nil {
		t.Fatal("expected a pick for Physical/Stressed/15")
	}
	if p.Activity.ID != 9 || p.Candidates != 1 {
		t.Errorf("pick = %+v (candidates %d), want id 9 of 1", p.Activity, p.Candidates)
	}

	spun := decodePick(t, doReq(h, http.MethodPost, "/spin", ""))
	if spun.Activity == nil || spun.Activity.ID != 9 {
		t.Errorf("spin = %+v, want id 9", spun.Activity)
	}

	current := decodePick(t, doReq(h, http.MethodGet, "/pick", ""))
	if current.Activity == nil || current.Activity.ID != 9 {
		t.Errorf("current = %+v, want id 9", current.Activity)
	}
}

func TestSetFilter_NoMatch(t *testing.T) {
	h, _, _ := setupHandler(t)

	rr := doReq(h, http.MethodPut, "/filter", `{"category":"Social","max_duration":15}`)
	p := decodePick(t, rr)
	if p.Activity != nil {
		t.Errorf("pick = %+v, want null activity", p.Activity)
	}
	if p.Candidates != 0 {
		t.Errorf("candidates = %d, want 0", p.Candidates)
	}
}

func TestSetFilter_Invalid(t *testing.T) {
	h, _, _ := setupHandler(t)

	for _, body := range []string{`{`, `{"category":"Outdoorsy"}`, `{"max_duration":-5}`} {
		rr := doReq(h, http.MethodPut, "/filter", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rr.Code)
		}
	}
}

func TestToggleFavorite(t *testing.T) {
	h, _, store := setupHandler(t)

	rr := doReq(h, http.MethodPost, "/favorites/2/toggle", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}
	var res ToggleResult
	json.NewDecoder(rr.Body).Decode(&res)
	if !res.Favorite || len(res.Favorites) != 1 || res.Favorites[0] != 2 {
		t.Errorf("toggle result = %+v", res)
	}
	if v, _, _ := store.GetItem(favorites.StorageKey); v != "[2]" {
		t.Errorf("persisted = %q, want [2]", v)
	}

	rr = doReq(h, http.MethodGet, "/favorites", "")
	var favs []ActivityView
	json.NewDecoder(rr.Body).Decode(&favs)
	if len(favs) != 1 || favs[0].ID != 2 || !favs[0].Favorite {
		t.Errorf("favorites = %+v", favs)
	}

	rr = doReq(h, http.MethodPost, "/favorites/2/toggle", "")
	res = ToggleResult{}
	json.NewDecoder(rr.Body).Decode(&res)
	if res.Favorite || len(res.Favorites) != 0 {
		t.Errorf("second toggle result = %+v", res)
	}
}

func TestToggleFavorite_Errors(t *testing.T) {
	h, _, _ := setupHandler(t)

	if rr := doReq(h, http.MethodPost, "/favorites/abc/toggle", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("non-integer id: status = %d, want 400", rr.Code)
	}
	if rr := doReq(h, http.MethodPost, "/favorites/999/toggle", ""); rr.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rr.Code)
	}
}

// A zero max_duration in a JSON body is the field's zero value and means
// "no limit"; only negative ceilings are rejected.
func TestSetFilter_ZeroMaxDurationIsNoLimit(t *testing.T) {
	h, s, _ := setupHandler(t)

	rr := doReq(h, http.MethodPut, "/filter", `{"max_duration":0}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}
	p := decodePick(t, rr)
	if p.Candidates != len(s.Catalog()) {
		t.Errorf("Candidates = %d, want whole catalog %d", p.Candidates, len(s.Catalog()))
	}

	if rr := doReq(h, http.MethodGet, "/activities?max_duration=0", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("query max_duration=0: status = %d, want 400", rr.Code)
	}
}

func TestClearFavorites(t *testing.T) {
	h, s, store := setupHandler(t)
	s.ToggleFavorite(1)
	s.ToggleFavorite(4)

	rr := doReq(h, http.MethodDelete, "/favorites", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("body = %s, want []", rr.Body.String())
	}
	if v, _, _ := store.GetItem(favorites.StorageKey); v != "[]" {
		t.Errorf("persisted = %q, want []", v)
	}
}
