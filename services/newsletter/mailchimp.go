package newsletter

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is the problem document Mailchimp returns on failure.
type APIError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("mailchimp %d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("mailchimp %d %s", e.Status, e.Title)
}

// Member is one audience subscriber as Mailchimp reports it.
type Member struct {
	ID           string            `json:"id"`
	EmailAddress string            `json:"email_address"`
	Status       string            `json:"status"`
	MergeFields  map[string]string `json:"merge_fields,omitempty"`
}

// AudienceStats is the subset of the list resource exposed to admins.
type AudienceStats struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stats struct {
		MemberCount       int     `json:"member_count"`
		UnsubscribeCount  int     `json:"unsubscribe_count"`
		CleanedCount      int     `json:"cleaned_count"`
		CampaignCount     int     `json:"campaign_count"`
		OpenRate          float64 `json:"open_rate"`
		ClickRate         float64 `json:"click_rate"`
		LastSubscribeDate string  `json:"last_sub_date"`
	} `json:"stats"`
}

// MailchimpClient talks to the Marketing API v3 for one audience.
type MailchimpClient struct {
	apiKey  string
	listID  string
	baseURL string
	http    *http.Client
}

// NewMailchimpClient targets https://<server>.api.mailchimp.com/3.0.
func NewMailchimpClient(apiKey, server, listID string) *MailchimpClient {
	return &MailchimpClient{
		apiKey:  apiKey,
		listID:  listID,
		baseURL: fmt.Sprintf("https://%s.api.mailchimp.com/3.0", server),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the client elsewhere, e.g. at a test server.
func (c *MailchimpClient) WithBaseURL(url string) *MailchimpClient {
	c.baseURL = strings.TrimRight(url, "/")
	return c
}

// SubscriberHash is the member id Mailchimp derives from an email address.
func SubscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

func (c *MailchimpClient) AddMember(ctx context.Context, email, firstName, lastName string) (*Member, error) {
	body := map[string]interface{}{
		"email_address": email,
		"status":        "subscribed",
		"merge_fields": map[string]string{
			"FNAME": firstName,
			"LNAME": lastName,
		},
	}
	var m Member
	if err := c.do(ctx, http.MethodPost, "/lists/"+c.listID+"/members", body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *MailchimpClient) GetList(ctx context.Context) (*AudienceStats, error) {
	var stats AudienceStats
	if err := c.do(ctx, http.MethodGet, "/lists/"+c.listID, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ActivateTags marks every tag active on the member.
func (c *MailchimpClient) ActivateTags(ctx context.Context, email string, tags []string) error {
	type tag struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	payload := struct {
		Tags []tag `json:"tags"`
	}{}
	for _, t := range tags {
		payload.Tags = append(payload.Tags, tag{Name: t, Status: "active"})
	}
	path := fmt.Sprintf("/lists/%s/members/%s/tags", c.listID, SubscriberHash(email))
	return c.do(ctx, http.MethodPost, path, payload, nil)
}

func (c *MailchimpClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.SetBasicAuth("glowbook", c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mailchimp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode mailchimp response: %w", err)
	}
	return nil
}
