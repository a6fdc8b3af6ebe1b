package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/HSouheill/fieldtrack_backend/logging"
)

// FollowUpNotifier reports meeting progress back to the lead system.
type FollowUpNotifier interface {
	UpdateStatus(ctx context.Context, followUpID, status string) error
}

// FollowUpClient PATCHes {baseURL}/{followUpId} with {"status": ...}.
type FollowUpClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewFollowUpClient(baseURL, token string) *FollowUpClient {
	return &FollowUpClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *FollowUpClient) UpdateStatus(ctx context.Context, followUpID, status string) error {
	if c.baseURL == "" || followUpID == "" {
		return nil
	}

	payload, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/"+url.PathEscape(followUpID), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("follow-up update returned %d", resp.StatusCode)
	}
	return nil
}

// notifyFollowUp is best effort; the meeting flow never fails because of it.
func notifyFollowUp(ctx context.Context, n FollowUpNotifier, followUpID, status string) {
	if n == nil || followUpID == "" {
		return
	}
	if err := n.UpdateStatus(ctx, followUpID, status); err != nil {
		logging.Warn().Err(err).Str("follow_up_id", followUpID).Str("status", status).Msg("follow-up status update failed")
	}
}
