package fakeapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/leap-app/leap/internal/api"
)

// Response helpers. Success bodies are the bare resource; failures are
// {"message": "..."} like the real backend.

type errorBody struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Message: message})
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, api.HealthStatus{
		Status:    "ok",
		Timestamp: s.opts.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.data.login(req.Username, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// Practice challenges

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	difficulty := q.Get("difficulty")
	if difficulty != "" && !validDifficulty(difficulty) {
		respondError(w, http.StatusBadRequest, "unknown difficulty: "+difficulty)
		return
	}

	skillID := 0
	if raw := q.Get("associated_skill_id"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "associated_skill_id must be an integer")
			return
		}
		skillID = n
	}

	respondJSON(w, http.StatusOK, s.data.listTemplates(difficulty, skillID))
}

func validDifficulty(d string) bool {
	for _, known := range api.Difficulties {
		if string(known) == d {
			return true
		}
	}
	return false
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := s.data.template(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "challenge template not found")
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req api.CompletionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := s.data.complete(userFrom(r.Context()), req)
	if errors.Is(err, errNotFound) {
		respondError(w, http.StatusNotFound, "challenge template not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleMyCompletions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.data.completionsFor(userFrom(r.Context())))
}

// Mind content

func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := api.ContentFilter{
		ContentType: api.ContentType(q.Get("content_type")),
		Search:      q.Get("search"),
	}
	if raw := q.Get("category_id"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "category_id must be an integer")
			return
		}
		f.CategoryID = n
	}
	respondJSON(w, http.StatusOK, s.data.listContent(f))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.data.listCategories())
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := s.data.contentByID(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "mind content not found")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (s *Server) handleAddContent(w http.ResponseWriter, r *http.Request) {
	var in api.MindContentInput
	if !decodeBody(w, r, &in) {
		return
	}
	if msg := s.checkContent(in); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	respondJSON(w, http.StatusCreated, s.data.addContent(in))
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in api.MindContentInput
	if !decodeBody(w, r, &in) {
		return
	}
	if msg := s.checkContent(in); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	c, err := s.data.updateContent(id, in)
	if err != nil {
		respondError(w, http.StatusNotFound, "mind content not found")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// checkContent returns a rejection message, or "" when in is acceptable.
func (s *Server) checkContent(in api.MindContentInput) string {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.URL) == "" {
		return "title and url are required"
	}
	switch in.ContentType {
	case api.Video, api.Article, api.Podcast, api.Book:
	default:
		return "unknown content_type: " + string(in.ContentType)
	}
	if !s.data.hasCategory(in.CategoryID) {
		return "unknown category_id: " + strconv.Itoa(in.CategoryID)
	}
	if in.DurationMinutes != nil && *in.DurationMinutes < 0 {
		return "duration_minutes must not be negative"
	}
	return ""
}
