package service

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func welcomeEmailTemplate(name, dashboardURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your profile is set up and your first goal is live.

Log your weight, meals and notes and your coach will answer every entry:
%s

Best,
The %s Team`, name, dashboardURL, appName)

	return subject, body
}

func goalCompletedEmailTemplate(name, goalType string, targetKg float64, goalsURL, appName string) (string, string) {
	subject := fmt.Sprintf("Goal reached on %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Congratulations! You marked your %s goal (target %s kg) as completed.

Ready for the next one? Set a new goal here:
%s

Best,
The %s Team`, name, goalLabel(goalType), strconv.FormatFloat(targetKg, 'f', -1, 64), goalsURL, appName)

	return subject, body
}

func summaryEmailTemplate(name, scope, summary, summariesURL, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s progress summary", goalLabel(scope))
	body := fmt.Sprintf(`Hi %s,

%s

See all your summaries: %s

Best,
The %s Team`, name, summary, summariesURL, appName)

	return subject, body
}

// goalLabel turns WEIGHT_LOSS into "weight loss".
func goalLabel(s string) string {
	return cases.Lower(language.English).String(strings.ReplaceAll(s, "_", " "))
}
