package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fitcoach/coach/internal/coach"
	"github.com/fitcoach/coach/internal/metrics"
	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/validation"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

var (
	ErrMissingWeight = errors.New("weight is required")
	ErrMissingText   = errors.New("text is required")
	ErrMissingFile   = errors.New("at least one file is required")
)

// DashboardLogLimit is the number of logs shown on the dashboard.
const DashboardLogLimit = 20

type LogInput struct {
	LogType  model.LogType
	WeightKg *float64
	Text     string
	Source   string
	Files    []Upload
}

// Submission is the outcome of a log submission: the stored log and the chat
// the coach answered in.
type Submission struct {
	Log      *model.Log           `json:"log"`
	Chat     *model.Chat          `json:"chat"`
	Messages []*model.ChatMessage `json:"messages"`
	Degraded bool                 `json:"degraded"`
}

type WeightPoint struct {
	Date     time.Time `json:"date"`
	WeightKg float64   `json:"weight_kg"`
}

type Dashboard struct {
	Goal    *model.Goal   `json:"goal"`
	Logs    []*model.Log  `json:"logs"`
	Weights []WeightPoint `json:"weights"`
}

type LogService struct {
	logs      logStore
	users     userStore
	goals     *GoalService
	resources *ResourceService
	chats     *ChatService
	coach     coachClient
	metrics   *metrics.Manager
}

func NewLogService(
	logs logStore,
	users userStore,
	goals *GoalService,
	resources *ResourceService,
	chats *ChatService,
	coachClient coachClient,
	metricsManager *metrics.Manager,
) *LogService {
	return &LogService{
		logs:      logs,
		users:     users,
		goals:     goals,
		resources: resources,
		chats:     chats,
		coach:     coachClient,
		metrics:   metricsManager,
	}
}

// Validate checks the input for its log type and every attached file
// before anything is stored.
func (s *LogService) Validate(in LogInput) error {
	err := validateFields(in)
	if err != nil {
		return err
	}
	for _, f := range in.Files {
		_, err := CheckUpload(f)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Filename, err)
		}
	}
	return nil
}

func validateFields(in LogInput) error {
	text := strings.TrimSpace(in.Text)

	switch in.LogType {
	case model.LogTypeWeight:
		if in.WeightKg == nil {
			return ErrMissingWeight
		}
		return validation.ValidateWeight(*in.WeightKg)
	case model.LogTypeNote:
		if text == "" {
			return ErrMissingText
		}
	case model.LogTypeFood:
		if text == "" {
			return ErrMissingText
		}
		if len(in.Files) == 0 {
			return ErrMissingFile
		}
	case model.LogTypeBodyPhoto:
		if len(in.Files) == 0 {
			return ErrMissingFile
		}
	case model.LogTypeMedical:
	default:
		return fmt.Errorf("unknown log type %q", in.LogType)
	}
	return nil
}

// Submit stores the files and the log, opens a chat for it and lets the
// coach answer the log. The log ends COMPLETED, or FAILED when the coach
// could not be reached.
func (s *LogService) Submit(ctx context.Context, userID string, in LogInput) (*Submission, error) {
	err := s.Validate(in)
	if err != nil {
		return nil, err
	}

	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	goal, err := s.goals.Active(ctx, userID)
	if err != nil {
		return nil, err
	}

	resourceIDs := make(model.StringList, 0, len(in.Files))
	logged := false
	defer func() {
		if !logged && len(resourceIDs) > 0 {
			s.discardResources(userID, resourceIDs)
		}
	}()

	var images []coach.Image
	for _, f := range in.Files {
		resource, err := s.resources.Upload(ctx, userID, in.LogType, f)
		if err != nil {
			return nil, err
		}
		resourceIDs = append(resourceIDs, resource.ID)

		if resource.ResourceType == model.ResourceTypeImage && resource.MimeType != nil {
			images = append(images, coach.Image{DataURL: DataURL(*resource.MimeType, f.Data)})
		}
	}

	payload, err := structuredData(in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &model.Log{
		ID:             uuid.New().String(),
		UserID:         userID,
		LogTimestamp:   now,
		CreatedAt:      now,
		LogType:        in.LogType,
		StructuredData: payload,
		ResourceIDs:    resourceIDs,
		AIStatus:       model.AIStatusPending,
	}
	if goal != nil {
		entry.GoalID = &goal.ID
	}
	if text := strings.TrimSpace(in.Text); text != "" {
		entry.RawText = &text
	}
	if in.Source != "" {
		entry.Source = &in.Source
	}

	err = s.logs.Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to create log: %w", err)
	}
	logged = true
	s.metrics.CounterLogs.WithLabelValues(string(in.LogType)).Inc()

	chat, err := s.chats.create(ctx, userID, entry.GoalID, &entry.ID)
	if err != nil {
		return nil, err
	}

	content := logMessage(in)
	userMessage, err := s.chats.add(ctx, chat, model.SenderUser, content)
	if err != nil {
		return nil, err
	}

	reply := s.coach.Reply(ctx, coach.Request{
		User:    user,
		Goal:    goal,
		History: []coach.Message{{Role: coach.RoleUser, Content: content}},
		Images:  images,
	})

	aiMessage, err := s.chats.add(ctx, chat, model.SenderAI, reply.Text)
	if err != nil {
		return nil, err
	}

	status := model.AIStatusCompleted
	if reply.Degraded() {
		status = model.AIStatusFailed
	}
	remark, _ := json.Marshal(map[string]string{"text": reply.Text})
	remarkText := types.JSONText(remark)

	err = s.logs.SetAIStatus(ctx, entry.ID, status, &remarkText)
	if err != nil {
		return nil, fmt.Errorf("failed to update log status: %w", err)
	}
	entry.AIStatus = status
	entry.AICoachRemark = &remarkText

	slog.Info("log submitted", "user_id", userID, "log_id", entry.ID, "type", in.LogType, "ai_status", status)

	return &Submission{
		Log:      entry,
		Chat:     chat,
		Messages: []*model.ChatMessage{userMessage, aiMessage},
		Degraded: reply.Degraded(),
	}, nil
}

func (s *LogService) ByID(ctx context.Context, userID, logID string) (*model.Log, error) {
	return s.logs.ByID(ctx, userID, logID)
}

// Recent returns the newest logs first. A non-positive limit uses the repository default.
func (s *LogService) Recent(ctx context.Context, userID string, limit int) ([]*model.Log, error) {
	return s.logs.Recent(ctx, userID, limit)
}

// Dashboard returns the active goal, the latest logs and the weight series, oldest first.
func (s *LogService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	goal, err := s.goals.Active(ctx, userID)
	if err != nil {
		return nil, err
	}

	logs, err := s.logs.Recent(ctx, userID, DashboardLogLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent logs: %w", err)
	}

	weights := []WeightPoint{}
	for i := len(logs) - 1; i >= 0; i-- {
		if kg, ok := logs[i].WeightKg(); ok {
			weights = append(weights, WeightPoint{Date: logs[i].LogTimestamp, WeightKg: kg})
		}
	}

	return &Dashboard{Goal: goal, Logs: logs, Weights: weights}, nil
}

// Export returns every log of the user, oldest first.
func (s *LogService) Export(ctx context.Context, userID string) ([]*model.Log, error) {
	return s.logs.Between(ctx, userID, nil, time.Now().UTC())
}

func structuredData(in LogInput) (types.JSONText, error) {
	text := strings.TrimSpace(in.Text)

	var payload any
	switch in.LogType {
	case model.LogTypeWeight:
		payload = model.WeightData{WeightKg: *in.WeightKg}
	case model.LogTypeNote:
		payload = model.NoteData{Text: text}
	case model.LogTypeFood:
		payload = model.FoodData{Description: text}
	default:
		return types.JSONText("{}"), nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode log data: %w", err)
	}
	return b, nil
}

// logMessage is the user's chat line for a new log, e.g. "I just logged a WEIGHT: 80.5kg.".
func logMessage(in LogInput) string {
	detail := strings.TrimSpace(in.Text)
	if detail == "" {
		if in.WeightKg != nil {
			detail = strconv.FormatFloat(*in.WeightKg, 'f', -1, 64) + "kg"
		} else {
			detail = strings.ToLower(in.LogType.Label())
		}
	}
	return "I just logged a " + string(in.LogType) + ": " + detail + "."
}

// discardResources removes uploads whose log was never created.
func (s *LogService) discardResources(userID string, ids []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, id := range ids {
		err := s.resources.Delete(ctx, userID, id)
		if err != nil {
			slog.Error("failed to discard orphaned resource", "error", err, "resource_id", id)
		}
	}
}
