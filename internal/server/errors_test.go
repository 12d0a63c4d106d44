package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/intellihire/internal/actions"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	id := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	assert.Equal(t, "email already registered: a@b.co", (&ErrEmailAlreadyExists{Email: "a@b.co"}).Error())
	assert.Equal(t, "invalid email or password", (&ErrInvalidCredentials{}).Error())
	assert.Equal(t, "user not found: "+id.String(), (&ErrUserNotFound{UserID: id}).Error())
	assert.Equal(t, "current password is incorrect", (&ErrPasswordMismatch{}).Error())
	assert.Equal(t, "validation error: email - required", (&ErrValidation{Field: "email", Message: "required"}).Error())
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"email exists", &ErrEmailAlreadyExists{}, http.StatusConflict},
		{"invalid credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"password mismatch", &ErrPasswordMismatch{}, http.StatusUnauthorized},
		{"not authenticated", actions.ErrNotAuthenticated, http.StatusUnauthorized},
		{"user not found", &ErrUserNotFound{}, http.StatusNotFound},
		{"validation", &ErrValidation{}, http.StatusBadRequest},
		{"generation unavailable", actions.ErrGenerationUnavailable, http.StatusServiceUnavailable},
		{"wrapped", fmt.Errorf("register: %w", &ErrEmailAlreadyExists{}), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
