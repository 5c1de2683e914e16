package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fitcoach/coach/internal/auth"
	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/repository"
	"github.com/fitcoach/coach/internal/validation"
)

var ErrProfileIncomplete = errors.New("gender, date of birth and height are required")

// ProfilePatch holds the editable profile fields. Nil fields are left unchanged.
type ProfilePatch struct {
	Name     *string    `json:"name"`
	Gender   *string    `json:"gender"`
	DOB      *time.Time `json:"dob"`
	HeightCm *float64   `json:"height_cm"`
}

type OnboardingStatus struct {
	ProfileComplete bool `json:"profile_complete"`
	HasActiveGoal   bool `json:"has_active_goal"`
	Complete        bool `json:"complete"`
}

type ProfileService struct {
	userRepository repository.UserRepository
	goalService    *GoalService
	emailService   *EmailService
	notifier       *auth.Notifier
}

func NewProfileService(
	userRepository repository.UserRepository,
	goalService *GoalService,
	emailService *EmailService,
	notifier *auth.Notifier,
) *ProfileService {
	return &ProfileService{
		userRepository: userRepository,
		goalService:    goalService,
		emailService:   emailService,
		notifier:       notifier,
	}
}

func (s *ProfileService) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepository.ByID(ctx, userID)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = applyPatch(user, patch)
	if err != nil {
		return nil, err
	}

	return user, s.save(ctx, user)
}

func (s *ProfileService) save(ctx context.Context, user *model.User) error {
	err := s.userRepository.UpdateProfile(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	s.notifier.Notify(auth.EventUserUpdated, user.ID)
	return nil
}

// applyPatch validates the patch and merges it into user.
func applyPatch(user *model.User, patch ProfilePatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		err := validation.ValidateName(name)
		if err != nil {
			return err
		}
		user.Name = &name
	}
	if patch.Gender != nil {
		gender := strings.ToLower(strings.TrimSpace(*patch.Gender))
		err := validation.ValidateGender(gender)
		if err != nil {
			return err
		}
		user.Gender = &gender
	}
	if patch.DOB != nil {
		err := validation.ValidateDOB(*patch.DOB, time.Now())
		if err != nil {
			return err
		}
		user.DOB = patch.DOB
	}
	if patch.HeightCm != nil {
		err := validation.ValidateHeight(*patch.HeightCm)
		if err != nil {
			return err
		}
		user.HeightCm = patch.HeightCm
	}
	return nil
}

// OnboardingStatus is complete once the profile is filled in and a goal is ACTIVE.
func (s *ProfileService) OnboardingStatus(ctx context.Context, userID string) (*OnboardingStatus, error) {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	goal, err := s.goalService.Active(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &OnboardingStatus{
		ProfileComplete: user.ProfileComplete(),
		HasActiveGoal:   goal != nil,
	}
	status.Complete = status.ProfileComplete && status.HasActiveGoal
	return status, nil
}

// CompleteOnboarding stores the profile, creates the first goal and sends the welcome email.
// Nothing is written unless the merged profile is complete and the goal is valid.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, userID string, patch ProfilePatch, goalInput GoalInput) (*model.User, *model.Goal, error) {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	err = applyPatch(user, patch)
	if err != nil {
		return nil, nil, err
	}
	if !user.ProfileComplete() {
		return nil, nil, ErrProfileIncomplete
	}
	_, err = newGoal(userID, goalInput)
	if err != nil {
		return nil, nil, err
	}

	err = s.save(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	goal, err := s.goalService.Create(ctx, userID, goalInput)
	if err != nil {
		return nil, nil, err
	}

	err = s.emailService.SendWelcomeEmail(ctx, user.Email, displayName(user))
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "email", user.Email)
	}

	slog.Info("onboarding completed", "user_id", userID)
	return user, goal, nil
}
