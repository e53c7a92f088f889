package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the HTTP surface. metrics may be nil to omit /metrics.
func NewRouter(apiHandler *APIHandler, metrics http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling
	r.Use(apiHandler.SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	// Public routes
	r.Post("/signup", apiHandler.SignupHandler)
	r.Post("/login", apiHandler.LoginHandler)
	r.Post("/logout", apiHandler.LogoutHandler)
	r.Get("/chats", apiHandler.ListChatsHandler)

	// User-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(apiHandler.RequireSession)

		r.Get("/dashboard", apiHandler.DashboardHandler)

		r.Get("/todos", apiHandler.ListTodosHandler)
		r.Post("/todos", apiHandler.CreateTodoHandler)
		r.Post("/todos/{todoID}/toggle", apiHandler.ToggleTodoHandler)
		r.Delete("/todos/{todoID}", apiHandler.DeleteTodoHandler)

		r.Post("/chats", apiHandler.CreateChatHandler)
		r.Get("/chats/{chatID}/messages", apiHandler.ListMessagesHandler)
		r.Post("/chats/{chatID}/messages", apiHandler.SaveMessageHandler)

		r.Post("/assistant/reply", apiHandler.AssistantReplyHandler)
		r.Post("/assistant/regenerate", apiHandler.AssistantRegenerateHandler)
	})

	return r
}
