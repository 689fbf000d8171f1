package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/internal/domain"
	"github.com/alnoorcollection/storefront/internal/repository"
	"github.com/alnoorcollection/storefront/pkg/mylogger"
)

var ErrInvalidMessageStatus = errors.New("invalid message status")

type SubmitMessageInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Message string `json:"message" validate:"required,min=5,max=2000"`
}

type MessageService interface {
	Submit(ctx context.Context, input *SubmitMessageInput) (*domain.ContactMessage, error)
	List(ctx context.Context, filter repository.MessageFilter) ([]domain.ContactMessage, error)
	GetByID(ctx context.Context, id int64) (*domain.ContactMessage, error)
	ChangeStatus(ctx context.Context, id int64, status domain.MessageStatus) error
	Delete(ctx context.Context, id int64) error
}

type messageService struct {
	messageRepo repository.MessageRepository
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewMessageService(messageRepo repository.MessageRepository, logger *zap.Logger) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		validate:    validator.New(),
		logger:      logger,
	}
}

func (s *messageService) Submit(ctx context.Context, input *SubmitMessageInput) (*domain.ContactMessage, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	msg := &domain.ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Phone:   strings.TrimSpace(input.Phone),
		Message: strings.TrimSpace(input.Message),
		Status:  domain.MessageStatusNew,
	}

	if _, err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Contact message received",
		zap.Int64("message_id", msg.ID),
	)

	return msg, nil
}

func (s *messageService) List(ctx context.Context, filter repository.MessageFilter) ([]domain.ContactMessage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidMessageStatus
	}

	return s.messageRepo.List(ctx, filter)
}

// GetByID marks an unread message as read, mirroring how opening a
// submission flips its status in the back office.
func (s *messageService) GetByID(ctx context.Context, id int64) (*domain.ContactMessage, error) {
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if msg.Status == domain.MessageStatusNew {
		if err := s.messageRepo.ChangeStatus(ctx, id, domain.MessageStatusRead); err != nil {
			mylogger.Warn(
				ctx,
				s.logger,
				"Failed to mark message as read",
				zap.Int64("message_id", id),
				zap.Error(err),
			)
		} else {
			msg.Status = domain.MessageStatusRead
		}
	}

	return msg, nil
}

func (s *messageService) ChangeStatus(ctx context.Context, id int64, status domain.MessageStatus) error {
	if !status.Valid() {
		return ErrInvalidMessageStatus
	}

	return s.messageRepo.ChangeStatus(ctx, id, status)
}

func (s *messageService) Delete(ctx context.Context, id int64) error {
	return s.messageRepo.DeleteByID(ctx, id)
}
