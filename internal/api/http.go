package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/whatnow/internal/catalog"
	"github.com/kalambet/whatnow/internal/session"
)

const maxRequestBodySize = 1 << 16 // 64KB

// Deps holds dependencies for the HTTP handler.
type Deps struct {
	Session *session.Session
}

// ActivityView is an activity annotated with its favorite status.
type ActivityView struct {
	catalog.Activity
	Favorite bool `json:"favorite"`
}

// ToggleResult is returned after a favorite toggle.
type ToggleResult struct {
	ID        int   `json:"id"`
	Favorite  bool  `json:"favorite"`
	Favorites []int `json:"favorites"`
}

// NewHandler returns the loopback HTTP API a host UI uses to drive a Session.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)

	r.Get("/health", handleHealth)
	r.Get("/activities", handleListActivities(deps))
	r.Get("/pick", handleGetPick(deps))
	r.Put("/filter", handleSetFilter(deps))
	r.Post("/spin", handleSpin(deps))
	r.Get("/favorites", handleListFavorites(deps))
	r.Delete("/favorites", handleClearFavorites(deps))
	r.Post("/favorites/{id}/toggle", handleToggleFavorite(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleListActivities(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		spec, err := catalog.ParseFilter(q.Get("category"), q.Get("mood"), q.Get("max_duration"))
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}

		matched := catalog.Filter(deps.Session.Catalog(), spec)
		writeJSON(w, views(deps.Session, matched))
	}
}

func handleGetPick(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, deps.Session.Current())
	}
}

func handleSetFilter(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var spec catalog.FilterSpec
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		spec, err := catalog.Normalize(spec)
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}

		writeJSON(w, deps.Session.SetFilter(spec))
	}
}

func handleSpin(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, deps.Session.Reroll())
	}
}

func handleListFavorites(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, views(deps.Session, deps.Session.Favorites()))
	}
}

func handleClearFavorites(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Session.ClearFavorites()
		slog.Debug("favorites cleared", "request_id", RequestIDFrom(r.Context()))
		writeJSON(w, views(deps.Session, deps.Session.Favorites()))
	}
}

func handleToggleFavorite(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "activity id must be an integer")
			return
		}
		if _, ok := deps.Session.Lookup(id); !ok {
			httpError(w, http.StatusNotFound, "not_found", "activity %d not found", id)
			return
		}

		res := toggle(deps.Session, id)
		slog.Debug("favorite toggled", "request_id", RequestIDFrom(r.Context()), "id", id, "favorite", res.Favorite)
		writeJSON(w, res)
	}
}

func toggle(s *session.Session, id int) ToggleResult {
	ids := s.ToggleFavorite(id)
	res := ToggleResult{ID: id, Favorites: ids}
	for _, fav := range ids {
		if fav == id {
			res.Favorite = true
			break
		}
	}
	return res
}

func views(s *session.Session, acts []catalog.Activity) []ActivityView {
	out := make([]ActivityView, len(acts))
	for i, a := range acts {
		out[i] = ActivityView{Activity: a, Favorite: s.IsFavorite(a.ID)}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
