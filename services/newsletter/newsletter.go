package newsletter

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync/atomic"

	"glowbook/models"
	"glowbook/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// batchConcurrency bounds parallel requests during a batch subscribe.
const batchConcurrency = 5

// Audience is the marketing-list backend.
type Audience interface {
	AddMember(ctx context.Context, email, firstName, lastName string) (*Member, error)
	GetList(ctx context.Context) (*AudienceStats, error)
	ActivateTags(ctx context.Context, email string, tags []string) error
}

type NewsletterService interface {
	Subscribe(ctx context.Context, req models.SubscribeRequest) (*Member, error)
	Stats(ctx context.Context) (*AudienceStats, error)
	AddTags(ctx context.Context, req models.TagsRequest) error
	BatchSubscribe(ctx context.Context, members []models.SubscribeRequest) (*models.BatchSubscribeResult, error)
}

type DefaultNewsletterService struct {
	Audience Audience
	Logger   *zap.Logger
}

func (s *DefaultNewsletterService) Subscribe(ctx context.Context, req models.SubscribeRequest) (*Member, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if s.Audience == nil {
		return nil, utils.Upstream("newsletter is not configured", nil)
	}
	m, err := s.Audience.AddMember(ctx, email, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName))
	if err != nil {
		s.Logger.Warn("Mailchimp subscribe failed", zap.String("email", email), zap.Error(err))
		return nil, upstreamErr("Subscription failed", err)
	}
	return m, nil
}

func (s *DefaultNewsletterService) Stats(ctx context.Context) (*AudienceStats, error) {
	if s.Audience == nil {
		return nil, utils.Upstream("newsletter is not configured", nil)
	}
	stats, err := s.Audience.GetList(ctx)
	if err != nil {
		return nil, utils.Internal("Failed to get audience stats", err)
	}
	return stats, nil
}

func (s *DefaultNewsletterService) AddTags(ctx context.Context, req models.TagsRequest) error {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return err
	}
	tags := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return utils.Validation("Email and tags array are required")
	}
	if s.Audience == nil {
		return utils.Upstream("newsletter is not configured", nil)
	}
	if err := s.Audience.ActivateTags(ctx, email, tags); err != nil {
		return upstreamErr("Failed to update tags", err)
	}
	return nil
}

// BatchSubscribe subscribes every member concurrently. Individual failures
// are reported in the result rather than failing the batch.
func (s *DefaultNewsletterService) BatchSubscribe(ctx context.Context, members []models.SubscribeRequest) (*models.BatchSubscribeResult, error) {
	if len(members) == 0 {
		return nil, utils.Validation("Members array is required")
	}
	if s.Audience == nil {
		return nil, utils.Upstream("newsletter is not configured", nil)
	}

	failures := make([]*models.SubscribeFailure, len(members))
	var ok int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, m := range members {
		i, m := i, m
		g.Go(func() error {
			if _, err := s.Subscribe(gctx, m); err != nil {
				failures[i] = &models.SubscribeFailure{Email: m.Email, Error: errorMessage(err)}
				return nil
			}
			atomic.AddInt64(&ok, 1)
			return nil
		})
	}
	_ = g.Wait()

	result := &models.BatchSubscribeResult{
		Processed:     len(members),
		Successful:    int(ok),
		FailedDetails: []models.SubscribeFailure{},
	}
	for _, f := range failures {
		if f != nil {
			result.FailedDetails = append(result.FailedDetails, *f)
		}
	}
	result.Failed = len(result.FailedDetails)
	s.Logger.Info("Batch subscribe finished",
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed))
	return result, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", utils.Validation("Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", utils.Validation("Email is invalid")
	}
	return email, nil
}

// upstreamErr surfaces Mailchimp's problem title to the client.
func upstreamErr(fallback string, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Title != "" {
		return utils.Upstream(apiErr.Title, err)
	}
	return utils.Upstream(fallback, err)
}

func errorMessage(err error) string {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
