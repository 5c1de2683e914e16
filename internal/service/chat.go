package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fitcoach/coach/internal/chatfeed"
	"github.com/fitcoach/coach/internal/coach"
	"github.com/fitcoach/coach/internal/metrics"
	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/repository"
	"github.com/google/uuid"
)

var ErrEmptyMessage = errors.New("message is empty")

// DefaultRecentLogLimit is the number of logs the coach sees when answering in a chat.
const DefaultRecentLogLimit = 5

type ChatService struct {
	chats          repository.ChatRepository
	messages       repository.ChatMessageRepository
	goals          repository.GoalRepository
	logs           logStore
	users          userStore
	coach          coachClient
	metrics        *metrics.Manager
	pollInterval   time.Duration
	recentLogLimit int
}

func NewChatService(
	chats repository.ChatRepository,
	messages repository.ChatMessageRepository,
	goals repository.GoalRepository,
	logs logStore,
	users userStore,
	coachClient coachClient,
	metricsManager *metrics.Manager,
	pollInterval time.Duration,
	recentLogLimit int,
) *ChatService {
	if recentLogLimit <= 0 {
		recentLogLimit = DefaultRecentLogLimit
	}
	return &ChatService{
		chats:          chats,
		messages:       messages,
		goals:          goals,
		logs:           logs,
		users:          users,
		coach:          coachClient,
		metrics:        metricsManager,
		pollInterval:   pollInterval,
		recentLogLimit: recentLogLimit,
	}
}

func (s *ChatService) ByID(ctx context.Context, userID, chatID string) (*model.Chat, error) {
	return s.chats.ByID(ctx, userID, chatID)
}

// ForLog returns the chat bound to a log.
func (s *ChatService) ForLog(ctx context.Context, userID, logID string) (*model.Chat, error) {
	return s.chats.ForLog(ctx, userID, logID)
}

// Global returns the user's chat that is not bound to any log, creating it on first use.
func (s *ChatService) Global(ctx context.Context, userID string) (*model.Chat, error) {
	chat, err := s.chats.Global(ctx, userID)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, repository.ErrChatNotFound) {
		return nil, err
	}

	goalID := s.activeGoalID(ctx, userID)
	return s.create(ctx, userID, goalID, nil)
}

func (s *ChatService) create(ctx context.Context, userID string, goalID, logID *string) (*model.Chat, error) {
	now := time.Now().UTC()
	chat := &model.Chat{
		ID:          uuid.New().String(),
		UserID:      userID,
		GoalID:      goalID,
		MasterLogID: logID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.chats.Create(ctx, chat)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return chat, nil
}

// Messages returns the messages of a chat owned by the user, oldest first.
func (s *ChatService) Messages(ctx context.Context, userID, chatID string) ([]*model.ChatMessage, error) {
	// Verify ownership
	_, err := s.chats.ByID(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	return s.messages.Messages(ctx, chatID)
}

func (s *ChatService) add(ctx context.Context, chat *model.Chat, sender model.SenderType, content string) (*model.ChatMessage, error) {
	message := &model.ChatMessage{
		ID:         uuid.New().String(),
		ChatID:     chat.ID,
		UserID:     chat.UserID,
		SenderType: sender,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}

	err := s.messages.Add(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to add %s message: %w", strings.ToLower(string(sender)), err)
	}
	return message, nil
}

// Exchange is a user message and the coach's answer to it.
type Exchange struct {
	UserMessage *model.ChatMessage `json:"user_message"`
	AIMessage   *model.ChatMessage `json:"ai_message"`
	Degraded    bool               `json:"degraded"`
}

// Send stores the user's message, asks the coach with the active goal and the
// most recent logs as context, and stores the answer.
func (s *ChatService) Send(ctx context.Context, userID, chatID, content string) (*Exchange, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	chat, err := s.chats.ByID(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	previous, err := s.messages.Messages(ctx, chat.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	userMessage, err := s.add(ctx, chat, model.SenderUser, content)
	if err != nil {
		return nil, err
	}

	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	goal, err := s.goals.Active(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrGoalNotFound) {
		return nil, fmt.Errorf("failed to get active goal: %w", err)
	}

	recent, err := s.logs.Recent(ctx, userID, s.recentLogLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent logs: %w", err)
	}

	history := make([]coach.Message, 0, len(previous)+1)
	for _, m := range previous {
		history = append(history, historyMessage(m))
	}
	history = append(history, coach.Message{Role: coach.RoleUser, Content: content})

	reply := s.coach.Reply(ctx, coach.Request{
		User:       user,
		Goal:       goal,
		RecentLogs: recent,
		History:    history,
	})

	aiMessage, err := s.add(ctx, chat, model.SenderAI, reply.Text)
	if err != nil {
		return nil, err
	}

	return &Exchange{
		UserMessage: userMessage,
		AIMessage:   aiMessage,
		Degraded:    reply.Degraded(),
	}, nil
}

// PollInterval is how often open feeds re-fetch their messages.
func (s *ChatService) PollInterval() time.Duration {
	return s.pollInterval
}

// Feed polls the chat's messages until ctx is cancelled. Every value on the
// channel is the complete message list and replaces the previous one.
func (s *ChatService) Feed(ctx context.Context, userID, chatID string) (<-chan []*model.ChatMessage, error) {
	_, err := s.chats.ByID(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	poller := chatfeed.NewPoller(func(ctx context.Context) ([]*model.ChatMessage, error) {
		return s.messages.Messages(ctx, chatID)
	}, s.pollInterval, s.metrics)

	slog.Debug("chat feed opened", "user_id", userID, "chat_id", chatID)
	return poller.Run(ctx), nil
}

func (s *ChatService) activeGoalID(ctx context.Context, userID string) *string {
	goal, err := s.goals.Active(ctx, userID)
	if err != nil {
		return nil
	}
	return &goal.ID
}

func historyMessage(m *model.ChatMessage) coach.Message {
	role := coach.RoleAssistant
	if m.SenderType == model.SenderUser {
		role = coach.RoleUser
	}
	return coach.Message{Role: role, Content: m.Content}
}
