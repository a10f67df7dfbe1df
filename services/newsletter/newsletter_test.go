package newsletter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"glowbook/models"
	"glowbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeMailchimp serves the three endpoints the client uses.
type fakeMailchimp struct {
	mu      sync.Mutex
	members map[string]bool
	tags    map[string][]string
	auth    string
}

func (f *fakeMailchimp) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/lists/L1/members", func(w http.ResponseWriter, r *http.Request) {
		_, key, _ := r.BasicAuth()
		f.mu.Lock()
		f.auth = key
		f.mu.Unlock()

		var body struct {
			Email string `json:"email_address"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.members[body.Email] {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"status":400,"title":"Member Exists","detail":"already a list member"}`))
			return
		}
		f.members[body.Email] = true
		_ = json.NewEncoder(w).Encode(Member{ID: SubscriberHash(body.Email), EmailAddress: body.Email, Status: "subscribed"})
	})
	mux.HandleFunc("/lists/L1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"L1","name":"Glow list","stats":{"member_count":42,"open_rate":31.5}}`))
	})
	mux.HandleFunc("/lists/L1/members/", func(w http.ResponseWriter, r *http.Request) {
		hash := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/lists/L1/members/"), "/tags")
		var body struct {
			Tags []struct {
				Name   string `json:"name"`
				Status string `json:"status"`
			} `json:"tags"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		for _, tg := range body.Tags {
			f.tags[hash] = append(f.tags[hash], tg.Name+":"+tg.Status)
		}
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func setup(t *testing.T) (*DefaultNewsletterService, *fakeMailchimp) {
	t.Helper()
	fake := &fakeMailchimp{members: map[string]bool{}, tags: map[string][]string{}}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	client := NewMailchimpClient("key-us1", "us1", "L1").WithBaseURL(srv.URL)
	return &DefaultNewsletterService{Audience: client, Logger: zap.NewNop()}, fake
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Status
}

func TestSubscriberHash(t *testing.T) {
	assert.Equal(t, SubscriberHash("ada@example.com"), SubscriberHash(" ADA@example.com "))
	assert.Len(t, SubscriberHash("ada@example.com"), 32)
}

func TestSubscribe(t *testing.T) {
	svc, fake := setup(t)
	ctx := context.Background()

	m, err := svc.Subscribe(ctx, models.SubscribeRequest{Email: "Ada@Example.com", FirstName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", m.EmailAddress)
	assert.Equal(t, "key-us1", fake.auth)

	_, err = svc.Subscribe(ctx, models.SubscribeRequest{Email: "ada@example.com"})
	require.Error(t, err)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Member Exists", appErr.Message)

	_, err = svc.Subscribe(ctx, models.SubscribeRequest{Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestStatsAndTags(t *testing.T) {
	svc, fake := setup(t)
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Glow list", stats.Name)
	assert.Equal(t, 42, stats.Stats.MemberCount)

	require.NoError(t, svc.AddTags(ctx, models.TagsRequest{Email: "ada@example.com", Tags: []string{"bridal", " "}}))
	assert.Equal(t, []string{"bridal:active"}, fake.tags[SubscriberHash("ada@example.com")])

	err = svc.AddTags(ctx, models.TagsRequest{Email: "ada@example.com", Tags: []string{" "}})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestBatchSubscribeReportsFailures(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Subscribe(ctx, models.SubscribeRequest{Email: "taken@example.com"})
	require.NoError(t, err)

	res, err := svc.BatchSubscribe(ctx, []models.SubscribeRequest{
		{Email: "one@example.com"},
		{Email: "taken@example.com"},
		{Email: "two@example.com"},
		{Email: "bogus"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Processed)
	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, "taken@example.com", res.FailedDetails[0].Email)
	assert.Equal(t, "bogus", res.FailedDetails[1].Email)

	_, err = svc.BatchSubscribe(ctx, nil)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}
