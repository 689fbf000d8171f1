package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/internal/domain"
	"github.com/alnoorcollection/storefront/internal/repository"
	"github.com/alnoorcollection/storefront/internal/storage"
	"github.com/alnoorcollection/storefront/pkg/mylogger"
)

var ErrInvalidPaymentType = errors.New("invalid payment method type")

type CreatePaymentMethodInput struct {
	Name          string             `json:"name" validate:"required,min=2,max=100"`
	Type          domain.PaymentType `json:"type" validate:"required,oneof=cash_on_delivery advance_payment"`
	AccountNumber string             `json:"account_number" validate:"max=100"`
}

// PaymentMethods groups enabled methods by how the customer pays.
type PaymentMethods struct {
	CashOnDelivery []domain.PaymentMethod `json:"cash_on_delivery"`
	AdvancePayment []domain.PaymentMethod `json:"advance_payment"`
}

type PaymentMethodService interface {
	ListForStorefront(ctx context.Context) (*PaymentMethods, error)
	ListAll(ctx context.Context) ([]domain.PaymentMethod, error)
	Create(ctx context.Context, input *CreatePaymentMethodInput) (*domain.PaymentMethod, error)
	SetEnabled(ctx context.Context, id int64, enabled bool) error
	UpdateAccountNumber(ctx context.Context, id int64, accountNumber string) error
	UploadQRCode(ctx context.Context, id int64, filename, contentType string, body io.Reader) (string, error)
	RemoveQRCode(ctx context.Context, id int64) error
}

type paymentMethodService struct {
	methodRepo    repository.PaymentMethodRepository
	uploader      storage.Uploader
	qrCodesBucket string
	logger        *zap.Logger
}

func NewPaymentMethodService(
	methodRepo repository.PaymentMethodRepository,
	uploader storage.Uploader,
	qrCodesBucket string,
	logger *zap.Logger,
) PaymentMethodService {
	return &paymentMethodService{
		methodRepo:    methodRepo,
		uploader:      uploader,
		qrCodesBucket: qrCodesBucket,
		logger:        logger,
	}
}

func (s *paymentMethodService) ListForStorefront(ctx context.Context) (*PaymentMethods, error) {
	methods, err := s.methodRepo.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	result := &PaymentMethods{}
	for _, m := range methods {
		switch m.Type {
		case domain.PaymentTypeCashOnDelivery:
			result.CashOnDelivery = append(result.CashOnDelivery, m)
		case domain.PaymentTypeAdvancePayment:
			result.AdvancePayment = append(result.AdvancePayment, m)
		}
	}

	return result, nil
}

func (s *paymentMethodService) ListAll(ctx context.Context) ([]domain.PaymentMethod, error) {
	return s.methodRepo.ListAll(ctx)
}

func (s *paymentMethodService) Create(ctx context.Context, input *CreatePaymentMethodInput) (*domain.PaymentMethod, error) {
	if input.Type != domain.PaymentTypeCashOnDelivery && input.Type != domain.PaymentTypeAdvancePayment {
		return nil, ErrInvalidPaymentType
	}

	method := &domain.PaymentMethod{
		Name:          strings.TrimSpace(input.Name),
		Type:          input.Type,
		MethodKey:     domain.DeriveMethodKey(input.Name),
		IsEnabled:     true,
		AccountNumber: strings.TrimSpace(input.AccountNumber),
	}

	if _, err := s.methodRepo.Create(ctx, method); err != nil {
		if errors.Is(err, repository.ErrMethodKeyTaken) {
			return nil, err
		}

		mylogger.Error(
			ctx,
			s.logger,
			"Failed to create payment method",
			zap.String("method_key", method.MethodKey),
			zap.Error(err),
		)

		return nil, err
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Payment method created",
		zap.String("method_key", method.MethodKey),
		zap.Int32("display_order", method.DisplayOrder),
	)

	return method, nil
}

func (s *paymentMethodService) SetEnabled(ctx context.Context, id int64, enabled bool) error {
	return s.methodRepo.SetEnabled(ctx, id, enabled)
}

func (s *paymentMethodService) UpdateAccountNumber(ctx context.Context, id int64, accountNumber string) error {
	return s.methodRepo.UpdateAccountNumber(ctx, id, strings.TrimSpace(accountNumber))
}

func (s *paymentMethodService) UploadQRCode(ctx context.Context, id int64, filename, contentType string, body io.Reader) (string, error) {
	method, err := s.methodRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s_%s%s", method.MethodKey, uuid.New().String(), path.Ext(filename))

	url, err := s.uploader.Upload(ctx, s.qrCodesBucket, key, contentType, body)
	if err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"QR code upload failed",
			zap.Int64("method_id", id),
			zap.Error(err),
		)

		return "", err
	}

	if err := s.methodRepo.UpdateQRCodeUrl(ctx, id, &url); err != nil {
		return "", err
	}

	return url, nil
}

func (s *paymentMethodService) RemoveQRCode(ctx context.Context, id int64) error {
	method, err := s.methodRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if method.QRCodeUrl != "" {
		key := path.Base(method.QRCodeUrl)
		if err := s.uploader.Remove(ctx, s.qrCodesBucket, key); err != nil {
			mylogger.Warn(
				ctx,
				s.logger,
				"Failed to remove QR object, clearing reference anyway",
				zap.Int64("method_id", id),
				zap.Error(err),
			)
		}
	}

	return s.methodRepo.UpdateQRCodeUrl(ctx, id, nil)
}
