package api

import (
	"net/http"
)

type SaveMessageRequest struct {
	Role        string   `json:"role"`
	Text        *string  `json:"text,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ListChatsHandler answers with an empty list when nobody is signed in.
func (h *APIHandler) ListChatsHandler(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chats.GetChats(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, err, "Failed to list chats")
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

func (h *APIHandler) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	chat, err := h.chats.CreateChat(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, err, "Failed to create chat")
		return
	}
	writeJSON(w, http.StatusCreated, chat)
}

func (h *APIHandler) ListMessagesHandler(w http.ResponseWriter, r *http.Request) {
	chatID, ok := pathID(r, "chatID")
	if !ok {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}
	messages, err := h.chats.GetChatMessages(r.Context(), userID(r), chatID)
	if err != nil {
		writeServiceError(w, err, "Failed to get chat messages")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *APIHandler) SaveMessageHandler(w http.ResponseWriter, r *http.Request) {
	chatID, ok := pathID(r, "chatID")
	if !ok {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return
	}
	var req SaveMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.chats.SaveChatMessage(r.Context(), userID(r), chatID, req.Role, req.Text, req.Suggestions)
	if err != nil {
		writeServiceError(w, err, "Failed to save message")
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
