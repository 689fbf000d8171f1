package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/internal/domain"
	"github.com/alnoorcollection/storefront/internal/repository"
)

type stubMethodRepo struct {
	repository.PaymentMethodRepository
	nextID  int64
	methods map[int64]*domain.PaymentMethod
}

func newStubMethodRepo() *stubMethodRepo {
	return &stubMethodRepo{methods: make(map[int64]*domain.PaymentMethod)}
}

func (r *stubMethodRepo) Create(_ context.Context, method *domain.PaymentMethod) (int64, error) {
	for _, existing := range r.methods {
		if existing.MethodKey == method.MethodKey {
			return 0, repository.ErrMethodKeyTaken
		}
	}

	r.nextID++
	method.ID = r.nextID
	method.DisplayOrder = int32(len(r.methods) + 1)
	copied := *method
	r.methods[method.ID] = &copied

	return method.ID, nil
}

func (r *stubMethodRepo) GetByID(_ context.Context, id int64) (*domain.PaymentMethod, error) {
	method, ok := r.methods[id]
	if !ok {
		return nil, repository.ErrPaymentMethodNotFound
	}

	return method, nil
}

func (r *stubMethodRepo) ListEnabled(_ context.Context) ([]domain.PaymentMethod, error) {
	var out []domain.PaymentMethod
	for _, m := range r.methods {
		if m.IsEnabled {
			out = append(out, *m)
		}
	}

	return out, nil
}

func (r *stubMethodRepo) SetEnabled(_ context.Context, id int64, enabled bool) error {
	method, ok := r.methods[id]
	if !ok {
		return repository.ErrPaymentMethodNotFound
	}

	method.IsEnabled = enabled
	return nil
}

func (r *stubMethodRepo) UpdateQRCodeUrl(_ context.Context, id int64, qrCodeUrl *string) error {
	method, ok := r.methods[id]
	if !ok {
		return repository.ErrPaymentMethodNotFound
	}

	if qrCodeUrl == nil {
		method.QRCodeUrl = ""
	} else {
		method.QRCodeUrl = *qrCodeUrl
	}

	return nil
}

func newMethodsForTest() (PaymentMethodService, *stubMethodRepo, *countingUploader) {
	repo := newStubMethodRepo()
	uploader := &countingUploader{}
	svc := NewPaymentMethodService(repo, uploader, "payment-qr-codes", zap.NewNop())

	return svc, repo, uploader
}

func TestPaymentMethods_Create_DerivesKey(t *testing.T) {
	svc, _, _ := newMethodsForTest()

	method, err := svc.Create(context.Background(), &CreatePaymentMethodInput{
		Name: "Easy Paisa",
		Type: domain.PaymentTypeAdvancePayment,
	})

	require.NoError(t, err)
	require.Equal(t, "easy_paisa", method.MethodKey)
	require.True(t, method.IsEnabled)
}

func TestPaymentMethods_Create_DuplicateKey_Failed(t *testing.T) {
	svc, _, _ := newMethodsForTest()
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreatePaymentMethodInput{
		Name: "Easy Paisa",
		Type: domain.PaymentTypeAdvancePayment,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &CreatePaymentMethodInput{
		Name: "easy   paisa",
		Type: domain.PaymentTypeAdvancePayment,
	})
	require.ErrorIs(t, err, repository.ErrMethodKeyTaken)
}

func TestPaymentMethods_Create_InvalidType_Failed(t *testing.T) {
	svc, _, _ := newMethodsForTest()

	_, err := svc.Create(context.Background(), &CreatePaymentMethodInput{
		Name: "Cheque",
		Type: domain.PaymentType("cheque"),
	})

	require.ErrorIs(t, err, ErrInvalidPaymentType)
}

func TestPaymentMethods_ListForStorefront_Partitions(t *testing.T) {
	svc, _, _ := newMethodsForTest()
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreatePaymentMethodInput{
		Name: "Cash on Delivery",
		Type: domain.PaymentTypeCashOnDelivery,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &CreatePaymentMethodInput{
		Name: "Bank Transfer",
		Type: domain.PaymentTypeAdvancePayment,
	})
	require.NoError(t, err)

	methods, err := svc.ListForStorefront(ctx)
	require.NoError(t, err)
	require.Len(t, methods.CashOnDelivery, 1)
	require.Len(t, methods.AdvancePayment, 1)
	require.Equal(t, "cash_on_delivery", methods.CashOnDelivery[0].MethodKey)
}

func TestPaymentMethods_Disable_HidesFromStorefront(t *testing.T) {
	svc, repo, _ := newMethodsForTest()
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreatePaymentMethodInput{
		Name: "Cash on Delivery",
		Type: domain.PaymentTypeCashOnDelivery,
	})
	require.NoError(t, err)

	bank, err := svc.Create(ctx, &CreatePaymentMethodInput{
		Name: "Bank Transfer",
		Type: domain.PaymentTypeAdvancePayment,
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetEnabled(ctx, bank.ID, false))

	methods, err := svc.ListForStorefront(ctx)
	require.NoError(t, err)
	require.Len(t, methods.CashOnDelivery, 1)
	require.Empty(t, methods.AdvancePayment)

	// The method record itself survives so existing orders keep resolving
	// their payment method by id.
	kept, err := repo.GetByID(ctx, bank.ID)
	require.NoError(t, err)
	require.Equal(t, "bank_transfer", kept.MethodKey)
	require.False(t, kept.IsEnabled)

	require.NoError(t, svc.SetEnabled(ctx, bank.ID, true))

	methods, err = svc.ListForStorefront(ctx)
	require.NoError(t, err)
	require.Len(t, methods.AdvancePayment, 1)
}

func TestPaymentMethods_UploadQRCode(t *testing.T) {
	svc, repo, uploader := newMethodsForTest()
	ctx := context.Background()

	method, err := svc.Create(ctx, &CreatePaymentMethodInput{
		Name: "Easy Paisa",
		Type: domain.PaymentTypeAdvancePayment,
	})
	require.NoError(t, err)

	url, err := svc.UploadQRCode(ctx, method.ID, "qr.png", "image/png", strings.NewReader("png-bytes"))

	require.NoError(t, err)
	require.Contains(t, url, "easy_paisa_")
	require.True(t, strings.HasSuffix(url, ".png"))
	require.Equal(t, 1, uploader.uploads)
	require.Equal(t, url, repo.methods[method.ID].QRCodeUrl)
}

func TestPaymentMethods_UploadQRCode_UnknownMethod_Failed(t *testing.T) {
	svc, _, uploader := newMethodsForTest()

	_, err := svc.UploadQRCode(context.Background(), 404, "qr.png", "image/png", strings.NewReader("png-bytes"))

	require.ErrorIs(t, err, repository.ErrPaymentMethodNotFound)
	require.Zero(t, uploader.uploads)
}

func TestPaymentMethods_RemoveQRCode_ClearsReference(t *testing.T) {
	svc, repo, _ := newMethodsForTest()
	ctx := context.Background()

	method, err := svc.Create(ctx, &CreatePaymentMethodInput{
		Name: "Easy Paisa",
		Type: domain.PaymentTypeAdvancePayment,
	})
	require.NoError(t, err)

	_, err = svc.UploadQRCode(ctx, method.ID, "qr.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	require.NoError(t, svc.RemoveQRCode(ctx, method.ID))
	require.Empty(t, repo.methods[method.ID].QRCodeUrl)
}
