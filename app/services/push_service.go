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

// PushSender delivers one push notification. The recipient identifier is the
// user's email address; the push provider maps it to device tokens on its
// side.
type PushSender interface {
	SendPush(ctx context.Context, recipient, title, body string) error
}

// PushSenderImpl implements PushSender against the provider's HTTP API
type PushSenderImpl struct {
	config *config.PushConfig
	client *http.Client
}

// PushRequest represents the request payload for the push API
type PushRequest struct {
	Recipient string `json:"recipient"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	AppID     string `json:"appId"`
}

// NewPushSender creates a new push sender instance
func NewPushSender(cfg *config.PushConfig) PushSender {
	return &PushSenderImpl{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SendPush sends one push notification
func (p *PushSenderImpl) SendPush(ctx context.Context, recipient, title, body string) error {
	payload := PushRequest{
		Recipient: recipient,
		Title:     title,
		Body:      body,
		AppID:     p.config.AppID,
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	url := fmt.Sprintf("https://%s/v1/notifications", p.config.ProviderDomain)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push delivery failed for %s: HTTP %d", recipient, resp.StatusCode)
	}
	return nil
}

// MockPushSender implements PushSender for testing
type MockPushSender struct {
	mu         sync.Mutex
	Recipients []string
	Titles     []string
	FailFor    map[string]error
}

// NewMockPushSender creates a mock push sender
func NewMockPushSender() *MockPushSender {
	return &MockPushSender{FailFor: make(map[string]error)}
}

func (m *MockPushSender) SendPush(ctx context.Context, recipient, title, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailFor[recipient]; ok {
		return err
	}
	m.Recipients = append(m.Recipients, recipient)
	m.Titles = append(m.Titles, title)
	return nil
}

// Sent returns the recipients contacted so far
func (m *MockPushSender) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Recipients...)
}
