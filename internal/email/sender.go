package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fleetdesk-api-server/config"
	"fleetdesk-api-server/internal/logger"
)

const defaultBaseURL = "https://api.resend.com"

// Payload is one outbound message.
type Payload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// Sender delivers transactional mail through the Resend HTTP API.
// Sends are best effort: a misconfigured or failing provider is logged
// and never fails the enclosing request.
type Sender struct {
	cfg    config.EmailConfig
	client *http.Client
}

func NewSender(cfg config.EmailConfig) *Sender {
	return &Sender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the message. Returns an error for callers that want to log
// it; callers must not propagate the failure to their own caller.
func (s *Sender) Send(payload Payload) error {
	if s.cfg.Provider == "" || s.cfg.From == "" {
		logger.L.WithField("to", payload.To).Warn("Email provider not configured, skipping send")
		return nil
	}
	if s.cfg.Provider != "resend" {
		logger.L.WithField("provider", s.cfg.Provider).Warn("Email provider not supported")
		return nil
	}
	if s.cfg.APIKey == "" {
		logger.L.Warn("RESEND_API_KEY is missing")
		return nil
	}

	body, err := json.Marshal(map[string]string{
		"from":    s.cfg.From,
		"to":      payload.To,
		"subject": payload.Subject,
		"text":    payload.Text,
		"html":    payload.HTML,
	})
	if err != nil {
		return err
	}

	baseURL := s.cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("resend API error: %d %s", resp.StatusCode, respBody)
	}
	return nil
}
