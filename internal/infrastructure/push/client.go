package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxBatch              = 100
	errDeviceUnregistered = "DeviceNotRegistered"
)

type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

type expoMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound,omitempty"`
}

type expoTicket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details"`
}

type expoResponse struct {
	Data   []expoTicket `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// Result lists the tokens the transport reported as no longer registered.
type Result struct {
	Accepted     int
	Unregistered []string
}

// Client sends push notifications through the Expo push API.
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *zap.Logger
}

func NewClient(endpoint, accessToken string, logger *zap.Logger) *Client {
	return &Client{
		endpoint:    endpoint,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(10), 10),
		logger:      logger,
	}
}

// Send delivers msg to every token in batches. Per-ticket errors other than an
// unregistered device are logged and do not fail the call.
func (c *Client) Send(ctx context.Context, tokens []string, msg Message) (*Result, error) {
	result := &Result{}

	for start := 0; start < len(tokens); start += maxBatch {
		end := min(start+maxBatch, len(tokens))
		batch := tokens[start:end]

		if err := c.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("waiting for push rate limit: %w", err)
		}

		tickets, err := c.sendBatch(ctx, batch, msg)
		if err != nil {
			return result, err
		}

		for i, ticket := range tickets {
			if i >= len(batch) {
				break
			}
			switch {
			case ticket.Status == "ok":
				result.Accepted++
			case ticket.Details.Error == errDeviceUnregistered:
				result.Unregistered = append(result.Unregistered, batch[i])
			default:
				c.logger.Warn("push ticket rejected",
					zap.String("error", ticket.Details.Error),
					zap.String("message", ticket.Message),
				)
			}
		}
	}

	return result, nil
}

func (c *Client) sendBatch(ctx context.Context, tokens []string, msg Message) ([]expoTicket, error) {
	messages := make([]expoMessage, len(tokens))
	for i, token := range tokens {
		messages[i] = expoMessage{To: token, Title: msg.Title, Body: msg.Body, Data: msg.Data, Sound: "default"}
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("encoding push messages: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending push request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading push response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("push transport returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var decoded expoResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decoding push response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("push transport error %s: %s", decoded.Errors[0].Code, decoded.Errors[0].Message)
	}

	return decoded.Data, nil
}
