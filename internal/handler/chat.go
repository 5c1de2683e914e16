package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fitcoach/coach/internal/ctxkeys"
	"github.com/fitcoach/coach/internal/markdown"
	"github.com/fitcoach/coach/internal/service"
	"github.com/fitcoach/coach/internal/ui"
)

type ChatHandler struct {
	chatService *service.ChatService
	md          *markdown.Parser
}

func NewChatHandler(chatService *service.ChatService, md *markdown.Parser) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		md:          md,
	}
}

func (h *ChatHandler) ForLog(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	chat, err := h.chatService.ForLog(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) Global(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	chat, err := h.chatService.Global(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	messages, err := h.chatService.Messages(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

type sendRequest struct {
	Content string `json:"content"`
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req sendRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	exchange, err := h.chatService.Send(r.Context(), user.ID, r.PathValue("id"), req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, exchange)
}

// Stream sends the full message list as a server-sent event on every poll
// until the client goes away.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	chatID := r.PathValue("id")

	feed, err := h.chatService.Feed(r.Context(), user.ID, chatID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rc := http.NewResponseController(w)
	// the stream outlives the server's write timeout
	err = rc.SetWriteDeadline(time.Time{})
	if err != nil {
		slog.Debug("write deadline not supported", "error", err)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for messages := range feed {
		data, err := json.Marshal(messages)
		if err != nil {
			slog.Error("failed to encode chat messages", "error", err, "chat_id", chatID)
			continue
		}
		_, err = fmt.Fprintf(w, "event: messages\ndata: %s\n\n", data)
		if err == nil {
			err = rc.Flush()
		}
		if err != nil {
			// client went away, the feed stops with the request context
			slog.Debug("chat stream write failed", "error", err, "chat_id", chatID)
			return
		}
	}
}

func (h *ChatHandler) ChatPage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	chat, err := h.chatService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	messages, err := h.chatService.Messages(r.Context(), user.ID, chat.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ui.Render(w, r, ui.ChatPage(chat, messages, h.md, h.chatService.PollInterval()))
}

// Feed renders the message list fragment that HTMX swaps in on every poll.
func (h *ChatHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	chatID := r.PathValue("id")

	messages, err := h.chatService.Messages(r.Context(), user.ID, chatID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ui.Render(w, r, ui.ChatFeed(chatID, messages, h.md, h.chatService.PollInterval()))
}
