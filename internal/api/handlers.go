package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taskflow.app/taskflow/internal/auth"
	"taskflow.app/taskflow/internal/core"
)

type contextKey string

const userIDKey contextKey = "userID"

type APIHandler struct {
	users     *core.UserService
	tasks     *core.TaskService
	chats     *core.ChatService
	assistant *core.Assistant
	sessions  *auth.SessionManager
}

func NewAPIHandler(users *core.UserService, tasks *core.TaskService, chats *core.ChatService, assistant *core.Assistant, sessions *auth.SessionManager) *APIHandler {
	return &APIHandler{
		users:     users,
		tasks:     tasks,
		chats:     chats,
		assistant: assistant,
		sessions:  sessions,
	}
}

// SessionMiddleware attaches the signed-in user id, if any, to the request context.
func (h *APIHandler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session := h.sessions.GetSession(r); session != nil {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, session.UserID))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession rejects requests without a signed-in user before any handler work.
func (h *APIHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID(r) == 0 {
			writeError(w, "Not authenticated", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// userID returns the signed-in user, or 0.
func userID(r *http.Request) int64 {
	id, _ := r.Context().Value(userIDKey).(int64)
	return id
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps core errors to HTTP statuses. Unexpected errors are logged
// and reported with the fallback message.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var validation *core.ValidationError
	var provider *core.ProviderError
	switch {
	case errors.As(err, &validation):
		writeError(w, validation.Message, http.StatusBadRequest)
	case errors.Is(err, core.ErrNotAuthenticated):
		writeError(w, "Not authenticated", http.StatusUnauthorized)
	case errors.Is(err, core.ErrNotFound):
		writeError(w, "Not found", http.StatusNotFound)
	case errors.Is(err, core.ErrInvalidConversation):
		writeError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, core.ErrTooManyRequests):
		writeError(w, core.UserMessage(err), http.StatusTooManyRequests)
	case errors.As(err, &provider):
		writeError(w, core.ProviderFailureMessage, http.StatusBadGateway)
	case errors.Is(err, core.ErrMissingAPIKey):
		log.Printf("Assistant is not configured: %v", err)
		writeError(w, "Assistant is not configured", http.StatusServiceUnavailable)
	default:
		log.Printf("%s: %v", fallback, err)
		writeError(w, fallback, http.StatusInternalServerError)
	}
}
