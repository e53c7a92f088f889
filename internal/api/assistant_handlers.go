package api

import (
	"net/http"

	"taskflow.app/taskflow/internal/core"
)

type ReplyRequest struct {
	Conversation core.Conversation `json:"conversation"`
}

type RegenerateRequest struct {
	Conversation core.Conversation `json:"conversation"`
	Rejected     []string          `json:"rejected"`
}

type RegenerateResponse struct {
	Suggestions []string `json:"suggestions"`
}

func (h *APIHandler) AssistantReplyHandler(w http.ResponseWriter, r *http.Request) {
	var req ReplyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	reply, err := h.assistant.Reply(r.Context(), req.Conversation)
	if err != nil {
		writeServiceError(w, err, "Failed to get assistant reply")
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *APIHandler) AssistantRegenerateHandler(w http.ResponseWriter, r *http.Request) {
	var req RegenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	suggestions, err := h.assistant.Regenerate(r.Context(), req.Conversation, req.Rejected)
	if err != nil {
		writeServiceError(w, err, "Failed to regenerate suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, RegenerateResponse{Suggestions: suggestions})
}
