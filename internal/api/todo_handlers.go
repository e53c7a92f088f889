package api

import (
	"net/http"
)

type CreateTodoRequest struct {
	Text string `json:"text"`
}

type ToggleTodoRequest struct {
	Completed bool `json:"completed"` // state the client currently shows
}

func (h *APIHandler) ListTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := h.tasks.ListTasks(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, err, "Failed to list todos")
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (h *APIHandler) CreateTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	todo, err := h.tasks.CreateTask(r.Context(), userID(r), req.Text)
	if err != nil {
		writeServiceError(w, err, "Failed to create todo")
		return
	}
	if todo == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (h *APIHandler) ToggleTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "todoID")
	if !ok {
		writeError(w, "Invalid todo ID", http.StatusBadRequest)
		return
	}
	var req ToggleTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.tasks.ToggleTask(r.Context(), userID(r), id, req.Completed); err != nil {
		writeServiceError(w, err, "Failed to update todo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) DeleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "todoID")
	if !ok {
		writeError(w, "Invalid todo ID", http.StatusBadRequest)
		return
	}
	if err := h.tasks.DeleteTask(r.Context(), userID(r), id); err != nil {
		writeServiceError(w, err, "Failed to delete todo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.tasks.Dashboard(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, err, "Failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
