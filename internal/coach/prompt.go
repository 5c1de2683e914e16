package coach

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fitcoach/coach/internal/model"
)

const defaultClientName = "Friend"

// SystemPrompt assembles the persona, the client, their goal and recent logs.
func SystemPrompt(persona *Persona, user *model.User, goal *model.Goal, recentLogs []*model.Log) string {
	var b strings.Builder

	name := user.DisplayName()
	if name == "" {
		name = defaultClientName
	}

	b.WriteString("\n")
	b.WriteString(persona.Intro)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Your client is %s.\n", name)

	if goal != nil {
		fmt.Fprintf(&b, "Their current goal is: %s (Target: %skg, Motivation: \"%s\").\n",
			goal.GoalType, formatKg(goal.TargetWeightKg), goal.Description)
	} else {
		b.WriteString("They have not set a specific goal yet.\n")
	}

	b.WriteString("\nRecent context:\n")
	lines := make([]string, 0, len(recentLogs))
	for _, log := range recentLogs {
		lines = append(lines, fmt.Sprintf("- %s: %s (%s)",
			log.LogTimestamp.Format("2006-01-02"), log.LogType, log.Details()))
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")

	b.WriteString("\nGuidelines:\n")
	for i, guideline := range persona.Guidelines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, guideline)
	}

	return b.String()
}

func formatKg(kg float64) string {
	return strconv.FormatFloat(kg, 'f', -1, 64)
}
