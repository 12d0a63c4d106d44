package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/intellihire/internal/server/middleware"
	"github.com/jonathan/intellihire/internal/types"
)

// maxLatestLimit bounds the limit query parameter of the latest feed
const maxLatestLimit = 100

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	var input types.InterviewInput
	if !s.decodeJSON(w, r, &input) {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.actions.CreateInterview(r.Context(), input))
}

func (s *Server) handleGenerateInterview(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateInterviewRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.actions.GenerateInterview(r.Context(), req))
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	interview, err := s.actions.GetInterviewByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.getterError(w, "Error fetching interview", err)
		return
	}
	s.dataResponse(w, interview)
}

func (s *Server) handleLatestInterviews(w http.ResponseWriter, r *http.Request) {
	params := types.LatestInterviewsParams{UserID: s.queryUserID(r)}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLatestLimit {
			s.errorResponse(w, http.StatusBadRequest, "limit must be an integer between 1 and 100")
			return
		}
		params.Limit = limit
	}

	interviews, err := s.actions.GetLatestInterviews(r.Context(), params)
	if err != nil {
		s.getterError(w, "Error fetching latest interviews", err)
		return
	}
	s.dataResponse(w, interviews)
}

func (s *Server) handleUserInterviews(w http.ResponseWriter, r *http.Request) {
	interviews, err := s.actions.GetInterviewsByUserID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.getterError(w, "Error fetching user interviews", err)
		return
	}
	s.dataResponse(w, interviews)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.actions.Dashboard(r.Context())
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("Error loading dashboard: %v", err)
		}
		s.errorResponse(w, status, types.ErrorMessage(err))
		return
	}
	s.dataResponse(w, dashboard)
}

// queryUserID returns ?userId=, falling back to the session user.
func (s *Server) queryUserID(r *http.Request) string {
	if userID := r.URL.Query().Get("userId"); userID != "" {
		return userID
	}
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		return userID.String()
	}
	return ""
}

// decodeJSON reads and validates a request body, writing a 400 envelope on failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := s.validator.Struct(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return false
	}
	return true
}

func (s *Server) getterError(w http.ResponseWriter, msg string, err error) {
	log.Printf("%s: %v", msg, err)
	s.errorResponse(w, http.StatusInternalServerError, types.ErrorMessage(err))
}
