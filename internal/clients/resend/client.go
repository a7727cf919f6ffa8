package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Client sends transactional mail through the Resend HTTP API. With no API
// key configured it logs the mail instead of sending, so local environments
// work without an account.
type Client struct {
	log        *slog.Logger
	apiURL     string
	apiKey     string
	from       string
	httpClient *http.Client
}

func New(log *slog.Logger, apiURL, apiKey, from string) *Client {
	return &Client{
		log:        log,
		apiURL:     apiURL,
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{},
	}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send delivers a single HTML mail.
func (c *Client) Send(ctx context.Context, to, subject, html string) error {
	const op = "resend.Send"
	logger := c.log.With(slog.String("op", op), slog.String("to", to))

	if c.apiKey == "" {
		logger.Info("resend not configured, logging mail instead",
			slog.String("subject", subject),
		)
		return nil
	}

	body, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      to,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("%s: failed to encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		logger.Error("resend returned an error", slog.Int("status", resp.StatusCode))
		return fmt.Errorf("%s: provider returned status %d: %s", op, resp.StatusCode, string(raw))
	}

	return nil
}
