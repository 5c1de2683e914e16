package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "ACTIVE"
	GoalStatusCompleted GoalStatus = "COMPLETED"
	GoalStatusArchived  GoalStatus = "ARCHIVED"
)

const (
	GoalTypeWeightLoss  = "WEIGHT_LOSS"
	GoalTypeWeightGain  = "WEIGHT_GAIN"
	GoalTypeMaintenance = "MAINTENANCE"
)

type Goal struct {
	ID             string         `db:"id" json:"id"`
	UserID         string         `db:"user_id" json:"user_id"`
	GoalType       string         `db:"goal_type" json:"goal_type"`
	Description    string         `db:"description" json:"description"`
	StartDate      time.Time      `db:"start_date" json:"start_date"`
	TargetDate     *time.Time     `db:"target_date" json:"target_date"`
	StartWeightKg  *float64       `db:"start_weight_kg" json:"start_weight_kg"`
	TargetWeightKg float64        `db:"target_weight_kg" json:"target_weight_kg"`
	Constraints    types.JSONText `db:"constraints" json:"constraints"`
	Preferences    types.JSONText `db:"preferences" json:"preferences"`
	Status         GoalStatus     `db:"status" json:"status"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

func (g *Goal) IsActive() bool {
	return g.Status == GoalStatusActive
}
