package api

import (
	"log"
	"net/http"

	"taskflow.app/taskflow/internal/core"
	"taskflow.app/taskflow/internal/store"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	User *store.User `json:"user"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req core.SignupInput
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Signup(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Failed to create user")
		return
	}
	if err := h.sessions.CreateSession(w, user.ID); err != nil {
		log.Printf("Error creating session for user %d: %v", user.ID, err)
		writeError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, UserResponse{User: user})
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, "Failed to sign in")
		return
	}
	if err := h.sessions.CreateSession(w, user.ID); err != nil {
		log.Printf("Error creating session for user %d: %v", user.ID, err)
		writeError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{User: user})
}

func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.sessions.DeleteSession(w)
	w.WriteHeader(http.StatusNoContent)
}
