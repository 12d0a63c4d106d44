package server

import (
	"net/http"

	"github.com/jonathan/intellihire/internal/types"
)

func (s *Server) handleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	var params types.CreateFeedbackParams
	if !s.decodeJSON(w, r, &params) {
		return
	}
	if params.UserID == "" {
		params.UserID = s.queryUserID(r)
	}
	if params.UserID == "" {
		s.errorResponse(w, http.StatusBadRequest, "validation error: UserID - required")
		return
	}
	s.jsonResponse(w, http.StatusOK, s.actions.CreateFeedback(r.Context(), params))
}

func (s *Server) handleGetFeedback(w http.ResponseWriter, r *http.Request) {
	query := types.FeedbackQuery{
		InterviewID: r.PathValue("id"),
		UserID:      s.queryUserID(r),
	}
	if err := s.validator.Struct(query); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	feedback, err := s.actions.GetFeedbackByInterviewID(r.Context(), query)
	if err != nil {
		s.getterError(w, "Error fetching feedback", err)
		return
	}
	s.dataResponse(w, feedback)
}
