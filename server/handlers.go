package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	advisor "github.com/ourstudio-se/shopping-advisor"
	"github.com/ourstudio-se/shopping-advisor/i18n"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// RecommendationRequest is the API request for a recommendation.
type RecommendationRequest struct {
	Requirements string `json:"requirements"`
	Lang         string `json:"lang,omitempty"`
}

// RecommendationResponse carries the recommendation text.
type RecommendationResponse struct {
	Recommendation string `json:"recommendation"`
}

func (s *Server) recommendHandler(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	lang := requestLang(r, req.Lang)

	requirements := strings.TrimSpace(req.Requirements)
	if requirements == "" {
		respondError(w, http.StatusBadRequest, i18n.Text("enter_requirements_warning", lang))
		return
	}

	result := s.advisor.Recommend(r.Context(), requirements, lang)
	respondJSON(w, http.StatusOK, RecommendationResponse{Recommendation: result})
}

// ComparisonRequest is the API request for a device comparison.
// Devices may be given as a list, as comma-separated text, or both.
type ComparisonRequest struct {
	Names          []string `json:"names,omitempty"`
	Devices        string   `json:"devices,omitempty"`
	ProfileSummary string   `json:"profileSummary,omitempty"`
	UserID         string   `json:"userId,omitempty"`
	Lang           string   `json:"lang,omitempty"`
}

// ComparisonResponse carries the comparison text.
type ComparisonResponse struct {
	Comparison string `json:"comparison"`
}

func (s *Server) compareHandler(w http.ResponseWriter, r *http.Request) {
	var req ComparisonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	lang := requestLang(r, req.Lang)

	var names []string
	for _, n := range req.Names {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	names = append(names, advisor.ParseDeviceNames(req.Devices)...)
	if len(names) == 0 {
		respondError(w, http.StatusBadRequest, i18n.Text("enter_device_names_warning", lang))
		return
	}

	summary := strings.TrimSpace(req.ProfileSummary)
	if summary == "" && strings.TrimSpace(req.UserID) != "" {
		profile, err := s.advisor.LoadProfile(r.Context(), req.UserID)
		switch {
		case err == nil:
			summary = advisor.ProfileSummary(profile)
		case !errors.Is(err, advisor.ErrProfileNotFound):
			s.logger.Warn("failed to load profile for comparison",
				slog.String("request_id", RequestID(r.Context())),
				slog.String("user_id", req.UserID),
				slog.String("error", err.Error()),
			)
		}
	}

	result := s.advisor.Compare(r.Context(), names, summary, lang)
	respondJSON(w, http.StatusOK, ComparisonResponse{Comparison: result})
}

// ProfileRequest is the API request for saving a profile.
// Preferences and History may be sent as JSON values or as strings holding JSON text.
type ProfileRequest struct {
	Preferences json.RawMessage `json:"preferences,omitempty"`
	History     json.RawMessage `json:"history,omitempty"`
	Lang        string          `json:"lang,omitempty"`
}

// ProfileResponse is a stored profile.
type ProfileResponse struct {
	UserID      string `json:"userId"`
	Preferences string `json:"preferences"`
	History     string `json:"history"`
}

// MessageResponse carries a localized confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

func (s *Server) saveProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	lang := requestLang(r, req.Lang)

	err := s.advisor.SaveProfile(r.Context(), chi.URLParam(r, "userID"), document(req.Preferences), document(req.History))
	if errors.Is(err, advisor.ErrMissingUserID) {
		respondError(w, http.StatusBadRequest, i18n.Text("no_user_id_warning", lang))
		return
	}
	if err != nil {
		s.logger.Error("failed to save profile",
			slog.String("request_id", RequestID(r.Context())),
			slog.String("error", err.Error()),
		)
		respondError(w, http.StatusInternalServerError, i18n.Text("error", lang))
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: i18n.Text("profile_saved", lang)})
}

// document returns the JSON text of a profile document. A JSON string is unquoted
// so that its content is stored, and null is treated as absent.
func document(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err == nil {
			return text
		}
	}
	return string(trimmed)
}

func (s *Server) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	lang := requestLang(r, r.URL.Query().Get("lang"))

	profile, err := s.advisor.LoadProfile(r.Context(), chi.URLParam(r, "userID"))
	switch {
	case errors.Is(err, advisor.ErrMissingUserID):
		respondError(w, http.StatusBadRequest, i18n.Text("no_user_id_warning", lang))
		return
	case errors.Is(err, advisor.ErrProfileNotFound):
		respondError(w, http.StatusNotFound, i18n.Text("no_profile", lang))
		return
	case err != nil:
		s.logger.Error("failed to load profile",
			slog.String("request_id", RequestID(r.Context())),
			slog.String("error", err.Error()),
		)
		respondError(w, http.StatusInternalServerError, i18n.Text("error", lang))
		return
	}

	respondJSON(w, http.StatusOK, ProfileResponse{
		UserID:      profile.UserID,
		Preferences: profile.Preferences,
		History:     profile.History,
	})
}

func (s *Server) translationsHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, i18n.Table(chi.URLParam(r, "lang")))
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return i18n.DefaultLanguage
	}
	return lang
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
