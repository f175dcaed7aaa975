package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nomadllercommunity-dot/crmnomad-sub000/logger"
)

// Client talks to the external calendar service. The calendar is an optional
// convenience: every method absorbs unavailability instead of failing, the
// reminder's source of truth stays in the database.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// CreateReminder registers a reminder event and returns its opaque reference.
// Returns nil when the calendar service is not configured, unreachable, or
// rejects the request.
func (c *Client) CreateReminder(title, description string, startAt time.Time) *string {
	if c.baseURL == "" {
		return nil
	}

	body, err := json.Marshal(CreateEventRequest{
		Title:       title,
		Description: description,
		StartAt:     startAt.Format(time.RFC3339),
	})
	if err != nil {
		logger.Warning(fmt.Sprintf("Calendar event payload marshal failed: %v", err))
		return nil
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/calendar/events/", bytes.NewBuffer(body))
	if err != nil {
		logger.Warning(fmt.Sprintf("Calendar event request build failed: %v", err))
		return nil
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Warning(fmt.Sprintf("Calendar service unreachable: %v", err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		logger.Warning("Calendar API returned non-OK status: " + resp.Status)
		return nil
	}

	var apiResp CreateEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		logger.Warning(fmt.Sprintf("Calendar response decode failed: %v", err))
		return nil
	}

	if apiResp.EventID == "" {
		logger.Warning("Calendar API returned empty event id")
		return nil
	}

	return &apiResp.EventID
}

// DeleteReminder removes a previously registered event. Best effort: a false
// return only means the remote event may linger, the caller's record is
// already cancelled.
func (c *Client) DeleteReminder(eventRef string) bool {
	if c.baseURL == "" || eventRef == "" {
		return false
	}

	httpReq, err := http.NewRequest(http.MethodDelete, c.baseURL+"/calendar/events/"+eventRef, nil)
	if err != nil {
		logger.Warning(fmt.Sprintf("Calendar delete request build failed: %v", err))
		return false
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Warning(fmt.Sprintf("Calendar service unreachable: %v", err))
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
