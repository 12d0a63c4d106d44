package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/intellihire/internal/server/middleware"
	"github.com/jonathan/intellihire/internal/types"
)

// AuthHandler serves the JSON auth API.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		validator:   validator.New(),
	}
}

// Register creates an account and returns a session for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.SignUpRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.session(w, http.StatusCreated, user)
}

// Login checks credentials and returns a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.SignInRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.session(w, http.StatusOK, user)
}

// Me returns the signed-in user's profile. Requires AuthMiddleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeEnvelope(w, http.StatusUnauthorized, types.Envelope{Error: "User not authenticated"})
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, types.Envelope{Success: true, Data: user})
}

// UpdatePassword changes the signed-in user's password. Requires AuthMiddleware.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeEnvelope(w, http.StatusUnauthorized, types.Envelope{Error: "User not authenticated"})
		return
	}

	var req types.UpdatePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, err)
		return
	}
	writeEnvelope(w, http.StatusOK, types.Envelope{
		Success: true,
		Data:    map[string]string{"message": "Password updated successfully"},
	})
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeEnvelope(w, http.StatusBadRequest, types.Envelope{Error: "Invalid request body"})
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		writeEnvelope(w, http.StatusBadRequest, types.Envelope{Error: extractValidationErrors(err)})
		return false
	}
	return true
}

func (h *AuthHandler) session(w http.ResponseWriter, status int, user *types.User) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		writeEnvelope(w, http.StatusInternalServerError, types.Envelope{Error: "Failed to generate token"})
		return
	}
	writeEnvelope(w, status, types.Envelope{
		Success: true,
		Data:    types.SessionResponse{User: user, Token: token},
	})
}

func (h *AuthHandler) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("Auth request failed: %v", err)
	}
	writeEnvelope(w, status, types.Envelope{Error: types.ErrorMessage(err)})
}

func writeEnvelope(w http.ResponseWriter, status int, env types.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// extractValidationErrors reports the first failed field.
func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
