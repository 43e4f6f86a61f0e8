// Package services provides external service integrations and technical concerns like message delivery and tokens
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

// SMSSender delivers one advertisement message to one phone number
type SMSSender interface {
	SendSMS(ctx context.Context, recipient, body string) error
}

// SMSSenderImpl implements SMSSender against the provider's HTTP API
type SMSSenderImpl struct {
	config *config.SMSConfig
	client *http.Client
}

// SMSRequest represents the request payload for the SMS API
type SMSRequest struct {
	SrcNum     string `json:"srcNum"`
	Recipient  string `json:"recipient"`
	Body       string `json:"body"`
	RetryCount int    `json:"retryCount"`
	Type       int    `json:"type"` // Always 1
}

// SMSResponse represents an individual message result from the SMS API
type SMSResponse struct {
	MessageID  int64  `json:"messageId"`
	Recipient  string `json:"recipient"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
}

// NewSMSSender creates a new SMS sender instance
func NewSMSSender(cfg *config.SMSConfig) SMSSender {
	return &SMSSenderImpl{
		config: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SendSMS sends one SMS message
func (s *SMSSenderImpl) SendSMS(ctx context.Context, recipient, body string) error {
	requests := []SMSRequest{{
		SrcNum:     s.config.SourceNumber,
		Recipient:  recipient,
		Body:       body,
		RetryCount: s.config.RetryCount,
		Type:       1,
	}}

	requestBody, err := json.Marshal(requests)
	if err != nil {
		return fmt.Errorf("failed to marshal SMS request: %w", err)
	}

	url := fmt.Sprintf("https://%s/api/v3.0.1/send", s.config.ProviderDomain)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS request: %w", err)
	}
	defer resp.Body.Close()

	var results []SMSResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return fmt.Errorf("failed to decode SMS response: %w", err)
	}
	for _, r := range results {
		if r.StatusCode != 200 || r.Status != "ACCEPTED" {
			return fmt.Errorf("SMS delivery failed for %s: %s (%d)", r.Recipient, r.Status, r.StatusCode)
		}
	}
	return nil
}

// MockSMSSender implements SMSSender for testing
type MockSMSSender struct {
	mu         sync.Mutex
	Recipients []string
	Bodies     []string
	FailFor    map[string]error
}

// NewMockSMSSender creates a mock SMS sender
func NewMockSMSSender() *MockSMSSender {
	return &MockSMSSender{FailFor: make(map[string]error)}
}

func (m *MockSMSSender) SendSMS(ctx context.Context, recipient, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailFor[recipient]; ok {
		return err
	}
	m.Recipients = append(m.Recipients, recipient)
	m.Bodies = append(m.Bodies, body)
	return nil
}

// Sent returns the recipients contacted so far
func (m *MockSMSSender) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Recipients...)
}
