package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type LogType string

const (
	LogTypeWeight    LogType = "WEIGHT"
	LogTypeFood      LogType = "FOOD"
	LogTypeBodyPhoto LogType = "BODY_PHOTO"
	LogTypeMedical   LogType = "MEDICAL"
	LogTypeNote      LogType = "NOTE"
)

var logTypes = []LogType{LogTypeWeight, LogTypeFood, LogTypeBodyPhoto, LogTypeMedical, LogTypeNote}

var labelCaser = cases.Title(language.English)

// ParseLogType accepts a log type in any letter case.
func ParseLogType(s string) (LogType, error) {
	t := LogType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range logTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown log type %q", s)
}

// Label returns a human readable name, e.g. "Body Photo".
func (t LogType) Label() string {
	return labelCaser.String(strings.ReplaceAll(strings.ToLower(string(t)), "_", " "))
}

type AIStatus string

const (
	AIStatusPending   AIStatus = "PENDING"
	AIStatusCompleted AIStatus = "COMPLETED"
	AIStatusFailed    AIStatus = "FAILED"
)

// Log is a row of master_logs.
type Log struct {
	ID             string          `db:"id" json:"id"`
	UserID         string          `db:"user_id" json:"user_id"`
	GoalID         *string         `db:"goal_id" json:"goal_id"`
	LogTimestamp   time.Time       `db:"log_timestamp" json:"log_timestamp"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	LogType        LogType         `db:"log_type" json:"log_type"`
	Source         *string         `db:"source" json:"source"`
	RawText        *string         `db:"raw_text" json:"raw_text"`
	StructuredData types.JSONText  `db:"structured_data" json:"structured_data"`
	ResourceIDs    StringList      `db:"resource_ids" json:"resource_ids"`
	AIStatus       AIStatus        `db:"ai_status" json:"ai_status"`
	AICoachRemark  *types.JSONText `db:"ai_coach_remark" json:"ai_coach_remark"`
	ValidationMeta *types.JSONText `db:"validation_meta" json:"validation_meta"`
	Tags           StringList      `db:"tags" json:"tags"`
}

// WeightData is the structured payload of a WEIGHT log.
type WeightData struct {
	WeightKg float64 `json:"weight_kg"`
}

// NoteData is the structured payload of a NOTE log.
type NoteData struct {
	Text string `json:"text"`
}

// FoodData is the structured payload of a FOOD log.
type FoodData struct {
	Description string `json:"description"`
}

// WeightKg extracts the weight from a WEIGHT log payload.
func (l *Log) WeightKg() (float64, bool) {
	if l.LogType != LogTypeWeight || len(l.StructuredData) == 0 {
		return 0, false
	}
	var data struct {
		WeightKg *float64 `json:"weight_kg"`
	}
	err := json.Unmarshal(l.StructuredData, &data)
	if err != nil || data.WeightKg == nil {
		return 0, false
	}
	return *data.WeightKg, true
}

// Details returns the raw text of the log, or "No details".
func (l *Log) Details() string {
	if l.RawText == nil || strings.TrimSpace(*l.RawText) == "" {
		return "No details"
	}
	return *l.RawText
}
