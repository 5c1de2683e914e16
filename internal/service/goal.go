package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/repository"
	"github.com/fitcoach/coach/internal/validation"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

var (
	ErrInvalidGoalType = errors.New("goal type must be WEIGHT_LOSS, WEIGHT_GAIN or MAINTENANCE")
	ErrGoalNotActive   = errors.New("goal is not active")
)

type GoalInput struct {
	GoalType       string          `json:"goal_type"`
	Description    string          `json:"description"`
	TargetDate     *time.Time      `json:"target_date"`
	StartWeightKg  *float64        `json:"start_weight_kg"`
	TargetWeightKg float64         `json:"target_weight_kg"`
	Constraints    json.RawMessage `json:"constraints"`
	Preferences    json.RawMessage `json:"preferences"`
}

// GoalPatch holds the editable goal fields. Nil fields are left unchanged.
type GoalPatch struct {
	Description    *string    `json:"description"`
	TargetWeightKg *float64   `json:"target_weight_kg"`
	TargetDate     *time.Time `json:"target_date"`
}

type GoalService struct {
	repo           repository.GoalRepository
	userRepository repository.UserRepository
	emailService   *EmailService
}

func NewGoalService(
	repo repository.GoalRepository,
	userRepository repository.UserRepository,
	emailService *EmailService,
) *GoalService {
	return &GoalService{
		repo:           repo,
		userRepository: userRepository,
		emailService:   emailService,
	}
}

// Active returns the user's ACTIVE goal, or nil when there is none.
func (s *GoalService) Active(ctx context.Context, userID string) (*model.Goal, error) {
	goal, err := s.repo.Active(ctx, userID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active goal: %w", err)
	}
	return goal, nil
}

// Create archives the current ACTIVE goal and makes the new one ACTIVE.
func (s *GoalService) Create(ctx context.Context, userID string, in GoalInput) (*model.Goal, error) {
	goal, err := newGoal(userID, in)
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	slog.Info("goal created", "user_id", userID, "goal_id", goal.ID, "type", goal.GoalType)
	return goal, nil
}

// newGoal validates the input and builds an ACTIVE goal without storing it.
func newGoal(userID string, in GoalInput) (*model.Goal, error) {
	goalType := strings.ToUpper(strings.TrimSpace(in.GoalType))
	switch goalType {
	case model.GoalTypeWeightLoss, model.GoalTypeWeightGain, model.GoalTypeMaintenance:
	default:
		return nil, ErrInvalidGoalType
	}

	err := validation.ValidateWeight(in.TargetWeightKg)
	if err != nil {
		return nil, fmt.Errorf("target %w", err)
	}
	if in.StartWeightKg != nil {
		err = validation.ValidateWeight(*in.StartWeightKg)
		if err != nil {
			return nil, fmt.Errorf("start %w", err)
		}
	}

	now := time.Now().UTC()
	goal := &model.Goal{
		ID:             uuid.New().String(),
		UserID:         userID,
		GoalType:       goalType,
		Description:    strings.TrimSpace(in.Description),
		StartDate:      now,
		TargetDate:     in.TargetDate,
		StartWeightKg:  in.StartWeightKg,
		TargetWeightKg: in.TargetWeightKg,
		Constraints:    types.JSONText(in.Constraints),
		Preferences:    types.JSONText(in.Preferences),
		Status:         model.GoalStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return goal, nil
}

func (s *GoalService) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	return s.repo.ByID(ctx, userID, goalID)
}

// Goals returns every goal of the user, newest first.
func (s *GoalService) Goals(ctx context.Context, userID string) ([]*model.Goal, error) {
	return s.repo.Goals(ctx, userID)
}

// History returns the user's goals except the ACTIVE one, newest first.
func (s *GoalService) History(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals, err := s.repo.Goals(ctx, userID)
	if err != nil {
		return nil, err
	}

	history := make([]*model.Goal, 0, len(goals))
	for _, g := range goals {
		if !g.IsActive() {
			history = append(history, g)
		}
	}
	return history, nil
}

func (s *GoalService) Update(ctx context.Context, userID, goalID string, patch GoalPatch) (*model.Goal, error) {
	// Verify ownership
	goal, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if patch.Description != nil {
		goal.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.TargetWeightKg != nil {
		err = validation.ValidateWeight(*patch.TargetWeightKg)
		if err != nil {
			return nil, fmt.Errorf("target %w", err)
		}
		goal.TargetWeightKg = *patch.TargetWeightKg
	}
	if patch.TargetDate != nil {
		goal.TargetDate = patch.TargetDate
	}

	err = s.repo.Update(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return goal, nil
}

// Complete marks an ACTIVE goal COMPLETED and congratulates the user.
func (s *GoalService) Complete(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if !goal.IsActive() {
		return nil, ErrGoalNotActive
	}

	err = s.repo.SetStatus(ctx, userID, goalID, model.GoalStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to complete goal: %w", err)
	}
	goal.Status = model.GoalStatusCompleted

	user, err := s.userRepository.ByID(ctx, userID)
	if err == nil {
		err = s.emailService.SendGoalCompletedEmail(ctx, user.Email, displayName(user), goal.GoalType, goal.TargetWeightKg)
		if err != nil {
			slog.Warn("failed to send goal completed email", "error", err, "user_id", userID)
		}
	}

	slog.Info("goal completed", "user_id", userID, "goal_id", goalID)
	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	return s.repo.Delete(ctx, userID, goalID)
}

func displayName(user *model.User) string {
	if name := user.DisplayName(); name != "" {
		return name
	}
	return model.DefaultName(user.Email)
}
