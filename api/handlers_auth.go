package api

import (
	"net/http"

	"oversight/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errors.respond(w, r, err, "Login failed")
		return
	}
	result, err := s.services.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.errors.respond(w, r, err, "Login failed")
		return
	}
	respondOK(w, "Login successful", result)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errors.respond(w, r, err, "Registration failed")
		return
	}
	user, err := s.services.Auth.Register(r.Context(), &req)
	if err != nil {
		s.errors.respond(w, r, err, "Registration failed")
		return
	}
	respondCreated(w, "User registered successfully", user)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	user, err := s.services.Auth.Me(r.Context(), identityOf(r).UserID)
	if err != nil {
		s.errors.respond(w, r, err, "Failed to retrieve profile")
		return
	}
	respondOK(w, "Profile retrieved successfully", user)
}
