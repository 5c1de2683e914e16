package coach

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/fitcoach/coach/internal/metrics"
	"github.com/fitcoach/coach/internal/model"
	openai "github.com/sashabaranov/go-openai"
)

const (
	MissingKeyReply = "I'm sorry, my brain is missing! Please set the OPENAI_API_KEY in the .env file."
	FailureReply    = "Sorry, I'm having trouble thinking right now. Please check my connection."
	EmptyReply      = "I'm not sure what to say."
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Image is an inline image, e.g. "data:image/jpeg;base64,...".
type Image struct {
	DataURL string
}

type Request struct {
	User       *model.User
	Goal       *model.Goal
	RecentLogs []*model.Log
	History    []Message // oldest first, the last entry is the one being answered
	Images     []Image
}

type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeMissingKey Outcome = "missing_key"
	OutcomeFailed     Outcome = "failed"
	OutcomeEmpty      Outcome = "empty"
)

// Reply always carries text to show. Outcome tells a real answer from a canned one.
type Reply struct {
	Text    string
	Outcome Outcome
}

// Degraded reports whether the model was not reached or the call failed.
func (r Reply) Degraded() bool {
	return r.Outcome == OutcomeMissingKey || r.Outcome == OutcomeFailed
}

type Config struct {
	APIKey      string
	BaseURL     string // Optional: OpenAI compatible endpoint
	Model       string
	Temperature *float64 // nil keeps the persona's
}

type Coach struct {
	api         *openai.Client // nil without an API key
	model       string
	temperature float32
	persona     *Persona
	metrics     *metrics.Manager
}

func New(cfg Config, persona *Persona, metricsManager *metrics.Manager) *Coach {
	c := &Coach{
		model:       persona.Model,
		temperature: float32(persona.Temperature),
		persona:     persona,
		metrics:     metricsManager,
	}
	if cfg.Model != "" {
		c.model = cfg.Model
	}
	if cfg.Temperature != nil {
		c.temperature = float32(*cfg.Temperature)
	}
	if c.temperature == 0 {
		// the request field is omitempty, so 0 would fall back to the API default
		c.temperature = math.SmallestNonzeroFloat32
	}
	if c.model == "" {
		c.model = openai.GPT4o
	}

	if cfg.APIKey == "" {
		slog.Warn("OPENAI_API_KEY not set, coach will answer with a placeholder")
		return c
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	c.api = openai.NewClientWithConfig(clientCfg)

	return c
}

// Reply generates the coach's answer to the last history message.
// It never fails: problems degrade to a fixed text.
func (c *Coach) Reply(ctx context.Context, req Request) Reply {
	if c.api == nil {
		return c.record(Reply{Text: MissingKeyReply, Outcome: OutcomeMissingKey})
	}

	begin := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    c.messages(req),
		Temperature: c.temperature,
	})
	if c.metrics != nil {
		c.metrics.HistCoachDuration.Observe(time.Since(begin).Seconds())
	}
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, context.Canceled) {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "chat completion failed", "error", err, "model", c.model)
		return c.record(Reply{Text: FailureReply, Outcome: OutcomeFailed})
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return c.record(Reply{Text: EmptyReply, Outcome: OutcomeEmpty})
	}

	return c.record(Reply{Text: resp.Choices[0].Message.Content, Outcome: OutcomeOK})
}

func (c *Coach) messages(req Request) []openai.ChatCompletionMessage {
	messages := []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: SystemPrompt(c.persona, req.User, req.Goal, req.RecentLogs),
	}}

	if len(req.History) == 0 {
		return messages
	}

	// images only belong to the turn being answered
	previous, last := req.History[:len(req.History)-1], req.History[len(req.History)-1]
	for _, msg := range previous {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	current := openai.ChatCompletionMessage{Role: string(last.Role)}
	if last.Role == RoleUser && len(req.Images) > 0 {
		parts := []openai.ChatMessagePart{{Type: openai.ChatMessagePartTypeText, Text: last.Content}}
		for _, img := range req.Images {
			parts = append(parts, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: img.DataURL},
			})
		}
		current.MultiContent = parts
	} else {
		current.Content = last.Content
	}

	return append(messages, current)
}

func (c *Coach) record(reply Reply) Reply {
	if c.metrics != nil {
		c.metrics.CounterCoachReplies.WithLabelValues(string(reply.Outcome)).Inc()
	}
	return reply
}
