package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fitcoach/coach/internal/coach"
	"github.com/fitcoach/coach/internal/metrics"
	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/repository"
	"github.com/google/uuid"
)

// summaryContextLogs caps the logs listed in the coach prompt for a summary.
const summaryContextLogs = 20

// SummaryMetrics are the figures a summary is written from.
type SummaryMetrics struct {
	LogCount      int            `json:"log_count"`
	CountsByType  map[string]int `json:"counts_by_type"`
	FirstWeightKg *float64       `json:"first_weight_kg,omitempty"`
	LastWeightKg  *float64       `json:"last_weight_kg,omitempty"`
	DeltaKg       *float64       `json:"delta_kg,omitempty"`
}

type SummaryService struct {
	repo         repository.SummaryRepository
	logs         logStore
	users        userStore
	goals        repository.GoalRepository
	coach        coachClient
	emailService *EmailService
	metrics      *metrics.Manager
}

func NewSummaryService(
	repo repository.SummaryRepository,
	logs logStore,
	users userStore,
	goals repository.GoalRepository,
	coachClient coachClient,
	emailService *EmailService,
	metricsManager *metrics.Manager,
) *SummaryService {
	return &SummaryService{
		repo:         repo,
		logs:         logs,
		users:        users,
		goals:        goals,
		coach:        coachClient,
		emailService: emailService,
		metrics:      metricsManager,
	}
}

// Generate writes a new summary for the scope's period and marks the previous
// ACTIVE summary of that scope STALE. When the coach is unreachable the canned
// reply comes back marked Degraded and the stored summaries are left alone.
func (s *SummaryService) Generate(ctx context.Context, userID string, scope model.ScopeType, notify bool) (*model.Summary, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	start := scope.PeriodStart(now)

	logs, err := s.logs.Between(ctx, userID, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get logs: %w", err)
	}

	goal, err := s.goals.Active(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrGoalNotFound) {
		return nil, fmt.Errorf("failed to get active goal: %w", err)
	}

	figures := computeSummaryMetrics(logs)

	// the prompt lists the newest logs first
	recent := make([]*model.Log, 0, summaryContextLogs)
	for i := len(logs) - 1; i >= 0 && len(recent) < summaryContextLogs; i-- {
		recent = append(recent, logs[i])
	}

	reply := s.coach.Reply(ctx, coach.Request{
		User:       user,
		Goal:       goal,
		RecentLogs: recent,
		History:    []coach.Message{{Role: coach.RoleUser, Content: summaryRequest(scope, figures)}},
	})
	encoded, err := json.Marshal(figures)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary metrics: %w", err)
	}

	summary := &model.Summary{
		ID:          uuid.New().String(),
		UserID:      userID,
		ScopeType:   scope,
		PeriodStart: start,
		PeriodEnd:   &now,
		SummaryText: reply.Text,
		Metrics:     encoded,
		Status:      model.SummaryStatusActive,
		CreatedAt:   now,
	}
	if reply.Degraded() {
		slog.Warn("summary not stored, coach degraded", "user_id", userID, "scope", scope, "outcome", reply.Outcome)
		summary.Degraded = true
		return summary, nil
	}

	err = s.repo.Replace(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("failed to store summary: %w", err)
	}
	s.metrics.CounterSummaries.WithLabelValues(string(scope)).Inc()

	if notify {
		err = s.emailService.SendSummaryEmail(ctx, user.Email, displayName(user), string(scope), summary.SummaryText)
		if err != nil {
			slog.Warn("failed to send summary email", "error", err, "user_id", userID)
		}
	}

	return summary, nil
}

// Active returns the current summary of the scope.
func (s *SummaryService) Active(ctx context.Context, userID string, scope model.ScopeType) (*model.Summary, error) {
	return s.repo.Active(ctx, userID, scope)
}

func (s *SummaryService) Summaries(ctx context.Context, userID string) ([]*model.Summary, error) {
	return s.repo.Summaries(ctx, userID)
}

// computeSummaryMetrics expects logs oldest first.
func computeSummaryMetrics(logs []*model.Log) SummaryMetrics {
	m := SummaryMetrics{
		LogCount:     len(logs),
		CountsByType: map[string]int{},
	}

	for _, l := range logs {
		m.CountsByType[string(l.LogType)]++

		kg, ok := l.WeightKg()
		if !ok {
			continue
		}
		if m.FirstWeightKg == nil {
			first := kg
			m.FirstWeightKg = &first
		}
		last := kg
		m.LastWeightKg = &last
	}

	if m.FirstWeightKg != nil && m.LastWeightKg != nil {
		delta := *m.LastWeightKg - *m.FirstWeightKg
		m.DeltaKg = &delta
	}
	return m
}

func summaryRequest(scope model.ScopeType, m SummaryMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize my %s progress in a few sentences.", strings.ToLower(string(scope)))
	fmt.Fprintf(&b, " I logged %d entries", m.LogCount)

	if len(m.CountsByType) > 0 {
		types := make([]string, 0, len(m.CountsByType))
		for t := range m.CountsByType {
			types = append(types, t)
		}
		sort.Strings(types)

		parts := make([]string, 0, len(types))
		for _, t := range types {
			parts = append(parts, t+": "+strconv.Itoa(m.CountsByType[t]))
		}
		b.WriteString(" (" + strings.Join(parts, ", ") + ")")
	}
	b.WriteString(".")

	if m.DeltaKg != nil {
		fmt.Fprintf(&b, " My weight went from %skg to %skg.",
			strconv.FormatFloat(*m.FirstWeightKg, 'f', -1, 64),
			strconv.FormatFloat(*m.LastWeightKg, 'f', -1, 64))
	}
	return b.String()
}
