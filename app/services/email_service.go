package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/amirphl/Susanoo/config"
)

// EmailSender delivers one advertisement message to one email address
type EmailSender interface {
	SendEmail(ctx context.Context, recipient, subject, body string) error
}

// EmailSenderImpl implements EmailSender against the provider's HTTP API
type EmailSenderImpl struct {
	config *config.EmailConfig
	client *http.Client
}

// EmailRequest represents the request payload for the email API
type EmailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewEmailSender creates a new email sender instance
func NewEmailSender(cfg *config.EmailConfig) EmailSender {
	return &EmailSenderImpl{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SendEmail sends one email message
func (e *EmailSenderImpl) SendEmail(ctx context.Context, recipient, subject, body string) error {
	payload := EmailRequest{
		From:    e.config.FromAddress,
		To:      recipient,
		Subject: subject,
		Body:    body,
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	url := fmt.Sprintf("https://%s/v1/messages", e.config.ProviderDomain)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.config.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email delivery failed for %s: HTTP %d", recipient, resp.StatusCode)
	}
	return nil
}

// MockEmailSender implements EmailSender for testing
type MockEmailSender struct {
	mu         sync.Mutex
	Recipients []string
	Subjects   []string
	FailFor    map[string]error
}

// NewMockEmailSender creates a mock email sender
func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{FailFor: make(map[string]error)}
}

func (m *MockEmailSender) SendEmail(ctx context.Context, recipient, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailFor[recipient]; ok {
		return err
	}
	m.Recipients = append(m.Recipients, recipient)
	m.Subjects = append(m.Subjects, subject)
	return nil
}

// Sent returns the recipients contacted so far
func (m *MockEmailSender) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Recipients...)
}
