package ui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fitcoach/coach/internal/markdown"
	"github.com/fitcoach/coach/internal/model"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

func chatTitle(chat *model.Chat) string {
	if chat.Title != nil && *chat.Title != "" {
		return *chat.Title
	}
	return "Coach"
}

func feedURL(chatID string) string {
	return "/app/chats/" + chatID + "/feed"
}

// coachHTML renders a coach reply from markdown. ok is false for other
// senders and for replies that do not parse; those show as escaped text.
func coachHTML(m *model.ChatMessage, md *markdown.Parser) (string, bool) {
	if m.SenderType != model.SenderAI {
		return "", false
	}
	html, err := md.Parse([]byte(m.Content))
	if err != nil {
		slog.Warn("failed to render coach reply", "error", err, "message_id", m.ID)
		return "", false
	}
	return string(html), true
}

// pollTrigger formats an interval for hx-trigger, e.g. "2s" or "500ms".
func pollTrigger(interval time.Duration) string {
	if interval%time.Second == 0 {
		return fmt.Sprintf("%ds", int(interval/time.Second))
	}
	return fmt.Sprintf("%dms", interval.Milliseconds())
}
