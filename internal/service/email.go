package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	homeURL   string // client app home page, links hang off it
	appName   string
}

func NewEmailService(apiKey, fromEmail, homeURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		homeURL:   homeURL,
		appName:   appName,
	}
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	subject, body := welcomeEmailTemplate(name, s.homeURL, s.appName)
	return s.send(ctx, "welcome", email, subject, body)
}

func (s *EmailService) SendGoalCompletedEmail(ctx context.Context, email, name, goalType string, targetKg float64) error {
	subject, body := goalCompletedEmailTemplate(name, goalType, targetKg, s.link("goals"), s.appName)
	return s.send(ctx, "goal_completed", email, subject, body)
}

func (s *EmailService) SendSummaryEmail(ctx context.Context, email, name, scope, summary string) error {
	subject, body := summaryEmailTemplate(name, scope, summary, s.link("summaries"), s.appName)
	return s.send(ctx, "summary", email, subject, body)
}

func (s *EmailService) link(page string) string {
	return strings.TrimSuffix(s.homeURL, "/") + "/" + page
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", kind, "to", to)
	}
	return err
}
