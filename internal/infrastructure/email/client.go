package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Client sends transactional email through a Resend-compatible HTTP API.
type Client struct {
	endpoint   string
	apiKey     string
	from       string
	httpClient *http.Client
}

func NewClient(endpoint, apiKey, from string) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("encoding email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email transport returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	return nil
}
