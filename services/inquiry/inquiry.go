package inquiry

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"glowbook/database/repository"
	inquiryRepo "glowbook/database/repository/inquiry"
	userRepo "glowbook/database/repository/user"
	"glowbook/models"
	"glowbook/services/events"
	"glowbook/services/presence"
	"glowbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Realtime event names pushed to connected clients.
const (
	EventInquiryNew     = "inquiry:new"
	EventInquiryMessage = "inquiry:message"
	EventInquiryStatus  = "inquiry:status"
)

// Notifier delivers an event to a user's live connection, if any.
type Notifier interface {
	EmitToUser(ctx context.Context, userID, event string, payload interface{}) error
}

type InquiryService interface {
	Create(ctx context.Context, customerID string, req models.InquiryCreateRequest) (*models.Inquiry, error)
	GetByID(ctx context.Context, id string) (*models.Inquiry, error)
	List(ctx context.Context, filter models.InquiryFilter) ([]models.Inquiry, error)
	// AddMessage appends to the thread. sender is SenderCustomer or SenderAdmin.
	AddMessage(ctx context.Context, id, sender string, req models.InquiryMessageRequest) (*models.Inquiry, error)
	UpdateStatus(ctx context.Context, id string, req models.InquiryStatusRequest) (*models.Inquiry, error)
	AddCommunication(ctx context.Context, id string, req models.CommunicationRequest) (*models.Inquiry, error)
	Delete(ctx context.Context, id string) error
}

type DefaultInquiryService struct {
	Repo     inquiryRepo.InquiryRepository
	Users    userRepo.UserRepository
	Presence presence.Store
	Notifier Notifier
	Events   events.Publisher
	Logger   *zap.Logger
	Now      func() time.Time
}

func (s *DefaultInquiryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create opens a thread and assigns it to an admin, preferring one who is
// connected.
func (s *DefaultInquiryService) Create(ctx context.Context, customerID string, req models.InquiryCreateRequest) (*models.Inquiry, error) {
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)
	if subject == "" || message == "" {
		return nil, utils.Validation("subject and message are required")
	}

	now := s.now()
	inq := &models.Inquiry{
		ID:            uuid.New().String(),
		Customer:      customerID,
		Subject:       subject,
		InquiryStatus: models.InquiryOpen,
		Messages: []models.InquiryMessage{
			{Sender: models.SenderCustomer, Message: message, Timestamp: now},
		},
		CommunicationHistory: []models.CommunicationEntry{
			{Action: "created", Timestamp: now},
		},
		AssignedStaff: s.assignStaff(ctx),
	}
	if err := s.Repo.Create(ctx, inq); err != nil {
		return nil, utils.Internal("failed to create inquiry", err)
	}

	if inq.AssignedStaff != "" {
		s.notify(ctx, inq.AssignedStaff, EventInquiryNew, inq)
	}
	if s.Events != nil {
		if err := s.Events.Publish(ctx, models.EventInquiryCreated, inq); err != nil {
			s.Logger.Warn("failed to publish inquiry event", zap.Error(err))
		}
	}
	s.Logger.Info("Inquiry created",
		zap.String("inquiry", inq.ID),
		zap.String("customer", customerID),
		zap.String("assignedStaff", inq.AssignedStaff))
	return inq, nil
}

// assignStaff prefers the first connected admin by id and falls back to any
// admin. An empty result leaves the thread unassigned.
func (s *DefaultInquiryService) assignStaff(ctx context.Context) string {
	admins, err := s.Users.GetByRole(ctx, models.RoleAdmin)
	if err != nil {
		s.Logger.Warn("admin lookup failed", zap.Error(err))
		return ""
	}
	if len(admins) == 0 {
		return ""
	}
	if s.Presence != nil {
		online, err := s.Presence.Online(ctx)
		if err != nil {
			s.Logger.Warn("presence lookup failed", zap.Error(err))
		}
		isAdmin := make(map[string]bool, len(admins))
		for _, a := range admins {
			isAdmin[a.ID] = true
		}
		sort.Strings(online)
		for _, id := range online {
			if isAdmin[id] {
				return id
			}
		}
	}
	return admins[0].ID
}

func (s *DefaultInquiryService) GetByID(ctx context.Context, id string) (*models.Inquiry, error) {
	inq, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, inquiryErr("failed to fetch inquiry", err)
	}
	return inq, nil
}

func (s *DefaultInquiryService) List(ctx context.Context, filter models.InquiryFilter) ([]models.Inquiry, error) {
	if filter.Status != "" && !models.ValidInquiryStatus(filter.Status) {
		return nil, utils.Validation("unknown inquiry status " + filter.Status)
	}
	inqs, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, utils.Internal("failed to fetch inquiries", err)
	}
	return inqs, nil
}

func (s *DefaultInquiryService) AddMessage(ctx context.Context, id, sender string, req models.InquiryMessageRequest) (*models.Inquiry, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, utils.Validation("message is required")
	}
	if sender != models.SenderCustomer && sender != models.SenderAdmin {
		return nil, utils.Validation("unknown sender " + sender)
	}
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.InquiryStatus == models.InquiryClosed {
		return nil, utils.Validation("inquiry is closed")
	}

	msg := models.InquiryMessage{Sender: sender, Message: text, Timestamp: s.now()}
	inq, err := s.Repo.AppendMessage(ctx, id, msg)
	if err != nil {
		return nil, inquiryErr("failed to add message", err)
	}

	payload := map[string]interface{}{"inquiryId": inq.ID, "message": msg}
	if sender == models.SenderCustomer {
		if inq.AssignedStaff != "" {
			s.notify(ctx, inq.AssignedStaff, EventInquiryMessage, payload)
		}
	} else {
		s.notify(ctx, inq.Customer, EventInquiryMessage, payload)
	}
	return inq, nil
}

func (s *DefaultInquiryService) UpdateStatus(ctx context.Context, id string, req models.InquiryStatusRequest) (*models.Inquiry, error) {
	if !models.ValidInquiryStatus(req.Status) {
		return nil, utils.Validation("unknown inquiry status " + req.Status)
	}
	entry := models.CommunicationEntry{
		Action:    "status:" + req.Status,
		Notes:     strings.TrimSpace(req.Notes),
		Timestamp: s.now(),
	}
	inq, err := s.Repo.UpdateStatus(ctx, id, req.Status, entry)
	if err != nil {
		return nil, inquiryErr("failed to update inquiry status", err)
	}
	s.notify(ctx, inq.Customer, EventInquiryStatus, map[string]string{
		"inquiryId": inq.ID,
		"status":    inq.InquiryStatus,
	})
	return inq, nil
}

func (s *DefaultInquiryService) AddCommunication(ctx context.Context, id string, req models.CommunicationRequest) (*models.Inquiry, error) {
	action := strings.TrimSpace(req.Action)
	if action == "" {
		return nil, utils.Validation("action is required")
	}
	entry := models.CommunicationEntry{Action: action, Notes: strings.TrimSpace(req.Notes), Timestamp: s.now()}
	inq, err := s.Repo.AppendCommunication(ctx, id, entry)
	if err != nil {
		return nil, inquiryErr("failed to log communication", err)
	}
	return inq, nil
}

func (s *DefaultInquiryService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return inquiryErr("failed to delete inquiry", err)
	}
	return nil
}

func (s *DefaultInquiryService) notify(ctx context.Context, userID, event string, payload interface{}) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.EmitToUser(ctx, userID, event, payload); err != nil {
		s.Logger.Debug("realtime delivery skipped",
			zap.String("user", userID),
			zap.String("event", event),
			zap.Error(err))
	}
}

func inquiryErr(msg string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound("Inquiry not found")
	}
	return utils.Internal(msg, err)
}
