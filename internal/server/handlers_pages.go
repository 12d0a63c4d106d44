package server

import (
	"log"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/jonathan/intellihire/internal/pages"
	"github.com/jonathan/intellihire/internal/server/middleware"
	"github.com/jonathan/intellihire/internal/types"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	user, err := s.userService.CurrentUser(r.Context())
	if err != nil {
		log.Printf("Error resolving session user: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		s.clearSession(w)
		http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
		return
	}

	data := pages.HomeData{User: user}
	if dashboard, err := s.actions.Dashboard(r.Context()); err != nil {
		log.Printf("Error loading dashboard: %v", err)
	} else {
		data.Dashboard = dashboard
	}
	s.render(w, r, http.StatusOK, pages.Home(data))
}

func (s *Server) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	if s.hasSession(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, pages.AuthPage(pages.AuthFormData{Type: pages.SignInForm}))
}

func (s *Server) handleSignUpPage(w http.ResponseWriter, r *http.Request) {
	if s.hasSession(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, pages.AuthPage(pages.AuthFormData{Type: pages.SignUpForm}))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderAuthError(w, r, http.StatusBadRequest, pages.AuthFormData{Type: pages.SignInForm, Error: "Invalid form submission"})
		return
	}
	req := types.SignInRequest{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}
	form := pages.AuthFormData{Type: pages.SignInForm, Email: req.Email}

	if err := s.validator.Struct(req); err != nil {
		form.Error = extractValidationErrors(err)
		s.renderAuthError(w, r, http.StatusBadRequest, form)
		return
	}

	user, err := s.userService.Login(r.Context(), &req)
	if err != nil {
		form.Error = types.ErrorMessage(err)
		s.renderAuthError(w, r, HTTPStatus(err), form)
		return
	}
	s.startSession(w, r, user)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderAuthError(w, r, http.StatusBadRequest, pages.AuthFormData{Type: pages.SignUpForm, Error: "Invalid form submission"})
		return
	}
	req := types.SignUpRequest{
		Name:     r.PostForm.Get("name"),
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}
	form := pages.AuthFormData{Type: pages.SignUpForm, Name: req.Name, Email: req.Email}

	if err := s.validator.Struct(req); err != nil {
		form.Error = extractValidationErrors(err)
		s.renderAuthError(w, r, http.StatusBadRequest, form)
		return
	}

	user, err := s.userService.Register(r.Context(), &req)
	if err != nil {
		form.Error = types.ErrorMessage(err)
		s.renderAuthError(w, r, HTTPStatus(err), form)
		return
	}
	s.startSession(w, r, user)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	s.clearSession(w)
	http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
}

func (s *Server) hasSession(r *http.Request) bool {
	_, ok := middleware.UserIDFromContext(r.Context())
	return ok
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user *types.User) {
	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.jwtService.TTL() / time.Second),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) renderAuthError(w http.ResponseWriter, r *http.Request, status int, form pages.AuthFormData) {
	if status == http.StatusInternalServerError {
		log.Printf("Error handling %s: %s", r.URL.Path, form.Error)
		form.Error = "Something went wrong. Please try again."
	}
	s.render(w, r, status, pages.AuthPage(form))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}
