package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"homesim/internal/auth"
)

// credentialRequest is the request body for register and login.
type credentialRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// credentialResponse is the response body for register and login:
// a success flag plus a human-readable reason.
type credentialResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleRegister creates a new credential entry.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	err := s.creds.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		status, message := registrationFailure(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("registration failed", "username", req.Username, "error", err)
		}
		writeJSON(w, status, credentialResponse{Success: false, Message: message})
		return
	}

	s.logger.Info("user registered", "username", req.Username)
	writeJSON(w, http.StatusCreated, credentialResponse{Success: true, Message: "Registration successful"})
}

// handleLogin authenticates a username/password pair.
//
// The response carries only a success flag and a reason; there are no
// sessions or tokens in this system.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	err := s.creds.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		status, message := authenticationFailure(err)
		writeJSON(w, status, credentialResponse{Success: false, Message: message})
		return
	}

	writeJSON(w, http.StatusOK, credentialResponse{Success: true, Message: "Login successful"})
}

// registrationFailure maps a register error to an HTTP status and
// human-readable reason.
func registrationFailure(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrEmptyCredentials):
		return http.StatusBadRequest, "Username and password cannot be empty"
	case errors.Is(err, auth.ErrPasswordTooShort):
		return http.StatusBadRequest, "Password must be at least 6 characters long"
	case errors.Is(err, auth.ErrUsernameExists):
		return http.StatusConflict, "Username already exists"
	default:
		return http.StatusInternalServerError, "Registration failed"
	}
}

// authenticationFailure maps an authenticate error to an HTTP status and
// human-readable reason.
func authenticationFailure(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrEmptyCredentials):
		return http.StatusBadRequest, "Username and password cannot be empty"
	case errors.Is(err, auth.ErrUnknownUser):
		return http.StatusUnauthorized, "User not found"
	case errors.Is(err, auth.ErrWrongPassword):
		return http.StatusUnauthorized, "Invalid password"
	default:
		return http.StatusInternalServerError, "Login failed"
	}
}
