package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const defaultAPIURL = "https://api.telnyx.com/v2/messages"

// TelnyxClient submits outbound messages to the Telnyx REST API.
type TelnyxClient struct {
	apiKey    string
	profileID string
	apiURL    string
	client    *http.Client
}

// NewTelnyxClient builds a client. apiURL may be empty to use the production
// endpoint; tests point it at an httptest server.
func NewTelnyxClient(apiKey, profileID, apiURL string) *TelnyxClient {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &TelnyxClient{
		apiKey:    apiKey,
		profileID: profileID,
		apiURL:    apiURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendResult is the provider's synchronous answer to a send request. A non-2xx
// business rejection is a normal result, not an error; Send returns a non-nil
// error only for transport-level failures (DNS, timeout, connection reset).
type SendResult struct {
	Accepted          bool
	StatusCode        int
	ProviderMessageID string
	Cost              *string
	ErrorDetail       string
}

type sendRequest struct {
	From               string `json:"from"`
	To                 string `json:"to"`
	Text               string `json:"text"`
	MessagingProfileID string `json:"messaging_profile_id"`
}

type sendResponse struct {
	Data struct {
		ID   string          `json:"id"`
		Cost json.RawMessage `json:"cost"`
	} `json:"data"`
}

type errorResponse struct {
	Errors []struct {
		Detail string `json:"detail"`
	} `json:"errors"`
}

func (c *TelnyxClient) Send(ctx context.Context, from, to, body string) (*SendResult, error) {
	reqBody, err := json.Marshal(sendRequest{
		From:               from,
		To:                 to,
		Text:               body,
		MessagingProfileID: c.profileID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telnyx request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted {
		result := &SendResult{Accepted: true, StatusCode: resp.StatusCode}

		var sr sendResponse
		if err := json.Unmarshal(respBody, &sr); err == nil {
			result.ProviderMessageID = sr.Data.ID
			result.Cost = ScalarCost(sr.Data.Cost)
		}
		return result, nil
	}

	return &SendResult{
		Accepted:    false,
		StatusCode:  resp.StatusCode,
		ErrorDetail: extractErrorDetail(respBody),
	}, nil
}

// extractErrorDetail digs the human-readable detail out of Telnyx's error
// envelope, falling back to the raw body, falling back to a generic string.
func extractErrorDetail(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && len(er.Errors) > 0 && er.Errors[0].Detail != "" {
		return er.Errors[0].Detail
	}
	if len(bytes.TrimSpace(body)) > 0 {
		return string(body)
	}
	return "unknown send error"
}

// ScalarCost returns the cost only when the provider reported a scalar value.
// Telnyx sometimes sends a structured cost object instead; that is treated as
// absent rather than guessed at.
func ScalarCost(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil
		}
		return &s
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		v := strconv.FormatFloat(f, 'f', -1, 64)
		return &v
	}

	return nil
}
