package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"
)

type ScopeType string

const (
	ScopeWeekly   ScopeType = "WEEKLY"
	ScopeMonthly  ScopeType = "MONTHLY"
	ScopeYearly   ScopeType = "YEARLY"
	ScopeLifetime ScopeType = "LIFETIME"
)

func ParseScopeType(s string) (ScopeType, error) {
	switch t := ScopeType(strings.ToUpper(strings.TrimSpace(s))); t {
	case ScopeWeekly, ScopeMonthly, ScopeYearly, ScopeLifetime:
		return t, nil
	}
	return "", fmt.Errorf("unknown summary scope %q", s)
}

// PeriodStart returns the start of the period ending at now, or nil for LIFETIME.
func (s ScopeType) PeriodStart(now time.Time) *time.Time {
	var start time.Time
	switch s {
	case ScopeWeekly:
		start = now.AddDate(0, 0, -7)
	case ScopeMonthly:
		start = now.AddDate(0, -1, 0)
	case ScopeYearly:
		start = now.AddDate(-1, 0, 0)
	default:
		return nil
	}
	return &start
}

type SummaryStatus string

const (
	SummaryStatusActive SummaryStatus = "ACTIVE"
	SummaryStatusStale  SummaryStatus = "STALE"
)

type Summary struct {
	ID          string         `db:"id" json:"id"`
	UserID      string         `db:"user_id" json:"user_id"`
	ScopeType   ScopeType      `db:"scope_type" json:"scope_type"`
	PeriodStart *time.Time     `db:"period_start" json:"period_start"`
	PeriodEnd   *time.Time     `db:"period_end" json:"period_end"`
	SummaryText string         `db:"summary_text" json:"summary_text"`
	Metrics     types.JSONText `db:"metrics" json:"metrics"`
	Status      SummaryStatus  `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`

	// Degraded marks a canned reply returned while the coach was unreachable.
	// Degraded summaries are never stored.
	Degraded bool `db:"-" json:"degraded,omitempty"`
}
