package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/internal/domain"
	"github.com/alnoorcollection/storefront/internal/repository"
)

type fakeMethodRepo struct {
	repository.PaymentMethodRepository
	methods map[int64]*domain.PaymentMethod
}

func (f *fakeMethodRepo) GetByID(_ context.Context, id int64) (*domain.PaymentMethod, error) {
	method, ok := f.methods[id]
	if !ok {
		return nil, repository.ErrPaymentMethodNotFound
	}

	return method, nil
}

type fakeProductRepo struct {
	repository.ProductRepository
	products map[int64]*domain.Product
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	return product, nil
}

type countingUploader struct {
	mu      sync.Mutex
	uploads int
}

func (u *countingUploader) Upload(_ context.Context, _, key, _ string, _ io.Reader) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.uploads++

	return "https://cdn.example.com/payment-proofs/" + key, nil
}

func (u *countingUploader) Remove(_ context.Context, _, _ string) error {
	return nil
}

// blockingCartStore parks the first Get until released so a second checkout
// for the same session can race the first one.
type blockingCartStore struct {
	CartStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingCartStore) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	s.once.Do(func() {
		close(s.entered)
		<-s.release
	})

	return s.CartStore.Get(ctx, sessionID)
}

func newCheckoutForTest(t *testing.T, store CartStore, methods map[int64]*domain.PaymentMethod) (*checkoutService, *countingUploader) {
	t.Helper()

	uploader := &countingUploader{}
	svc := NewCheckoutService(
		nil,
		nil,
		&fakeProductRepo{products: map[int64]*domain.Product{
			7: {ID: 7, Name: "Embroidered Shirt", Price: 3999, ImageUrl: "shirt.jpg"},
		}},
		&fakeMethodRepo{methods: methods},
		store,
		uploader,
		nil,
		zap.NewNop(),
		CheckoutConfig{
			ProofsBucket:    "payment-proofs",
			DeliveryCharges: 150,
			MaxProofBytes:   5242880,
		},
	)

	return svc.(*checkoutService), uploader
}

func validInput(sessionID string) *CheckoutInput {
	return &CheckoutInput{
		SessionID:    sessionID,
		CustomerName: "Ayesha Khan",
		Phone:        "0300-1234567",
		Address:      "House 12, Street 4",
		City:         "Lahore",
		PaymentType:  domain.PaymentTypeCashOnDelivery,
	}
}

func storeWithCart(t *testing.T, sessionID string) CartStore {
	t.Helper()

	store := NewMemoryCartStore()
	cart := &domain.Cart{}
	cart.Add(&domain.Product{ID: 7, Name: "Embroidered Shirt", Price: 3999, ImageUrl: "shirt.jpg"})
	require.NoError(t, store.Save(context.Background(), sessionID, cart))

	return store
}

func TestPlaceOrder_EmptyCart_Failed(t *testing.T) {
	svc, _ := newCheckoutForTest(t, NewMemoryCartStore(), nil)

	order, err := svc.PlaceOrder(context.Background(), validInput("s-empty"))

	require.Nil(t, order)
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrder_MissingRequiredFields_Failed(t *testing.T) {
	svc, _ := newCheckoutForTest(t, storeWithCart(t, "s-1"), nil)

	input := validInput("s-1")
	input.CustomerName = ""

	order, err := svc.PlaceOrder(context.Background(), input)

	require.Nil(t, order)

	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
}

func TestPlaceOrder_AdvanceWithoutMethod_Failed(t *testing.T) {
	svc, _ := newCheckoutForTest(t, storeWithCart(t, "s-1"), nil)

	input := validInput("s-1")
	input.PaymentType = domain.PaymentTypeAdvancePayment

	order, err := svc.PlaceOrder(context.Background(), input)

	require.Nil(t, order)
	require.ErrorIs(t, err, ErrPaymentMethodRequired)
}

func TestPlaceOrder_AdvanceWithoutProof_Failed(t *testing.T) {
	svc, _ := newCheckoutForTest(t, storeWithCart(t, "s-1"), map[int64]*domain.PaymentMethod{
		3: {ID: 3, Type: domain.PaymentTypeAdvancePayment, IsEnabled: true},
	})

	methodID := int64(3)
	input := validInput("s-1")
	input.PaymentType = domain.PaymentTypeAdvancePayment
	input.PaymentMethodID = &methodID

	order, err := svc.PlaceOrder(context.Background(), input)

	require.Nil(t, order)
	require.ErrorIs(t, err, ErrPaymentProofRequired)
}

func TestPlaceOrder_ProofTooLarge_NothingUploaded(t *testing.T) {
	svc, uploader := newCheckoutForTest(t, storeWithCart(t, "s-1"), map[int64]*domain.PaymentMethod{
		3: {ID: 3, Type: domain.PaymentTypeAdvancePayment, IsEnabled: true},
	})

	methodID := int64(3)
	input := validInput("s-1")
	input.PaymentType = domain.PaymentTypeAdvancePayment
	input.PaymentMethodID = &methodID
	input.Proof = &ProofUpload{
		Filename:    "proof.jpg",
		ContentType: "image/jpeg",
		Size:        5242881,
		Content:     strings.NewReader("payload"),
	}

	order, err := svc.PlaceOrder(context.Background(), input)

	require.Nil(t, order)
	require.ErrorIs(t, err, ErrProofTooLarge)
	require.Zero(t, uploader.uploads)
}

func TestPlaceOrder_DisabledMethod_Failed(t *testing.T) {
	svc, _ := newCheckoutForTest(t, storeWithCart(t, "s-1"), map[int64]*domain.PaymentMethod{
		3: {ID: 3, Type: domain.PaymentTypeAdvancePayment, IsEnabled: false},
	})

	methodID := int64(3)
	input := validInput("s-1")
	input.PaymentType = domain.PaymentTypeAdvancePayment
	input.PaymentMethodID = &methodID
	input.Proof = &ProofUpload{
		Filename:    "proof.jpg",
		ContentType: "image/jpeg",
		Size:        1024,
		Content:     strings.NewReader("payload"),
	}

	order, err := svc.PlaceOrder(context.Background(), input)

	require.Nil(t, order)
	require.ErrorIs(t, err, ErrPaymentMethodDisabled)
}

func TestPlaceOrder_CashMethodForAdvance_Failed(t *testing.T) {
	svc, _ := newCheckoutForTest(t, storeWithCart(t, "s-1"), map[int64]*domain.PaymentMethod{
		1: {ID: 1, Type: domain.PaymentTypeCashOnDelivery, IsEnabled: true},
	})

	methodID := int64(1)
	input := validInput("s-1")
	input.PaymentType = domain.PaymentTypeAdvancePayment
	input.PaymentMethodID = &methodID
	input.Proof = &ProofUpload{
		Filename:    "proof.jpg",
		ContentType: "image/jpeg",
		Size:        1024,
		Content:     strings.NewReader("payload"),
	}

	order, err := svc.PlaceOrder(context.Background(), input)

	require.Nil(t, order)
	require.ErrorIs(t, err, ErrPaymentMethodDisabled)
}

func TestPlaceOrder_SecondSubmissionRejectedWhileFirstRuns(t *testing.T) {
	gate := &blockingCartStore{
		CartStore: NewMemoryCartStore(),
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	svc, _ := newCheckoutForTest(t, gate, nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.PlaceOrder(context.Background(), validInput("s-race"))
		firstDone <- err
	}()

	<-gate.entered

	order, err := svc.PlaceOrder(context.Background(), validInput("s-race"))
	require.Nil(t, order)
	require.ErrorIs(t, err, ErrCheckoutInFlight)

	close(gate.release)
	require.ErrorIs(t, <-firstDone, ErrEmptyCart)
}

func TestCollectItems_BuyNowDefaultsQuantityToOne(t *testing.T) {
	svc, _ := newCheckoutForTest(t, NewMemoryCartStore(), nil)

	input := validInput("s-1")
	input.BuyNow = &BuyNowInput{ProductID: 7}

	items, err := svc.collectItems(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(1), items[0].Quantity)
	require.Equal(t, int64(3999), items[0].Price)
	require.Equal(t, "Embroidered Shirt", items[0].ProductName)
}

func TestCollectItems_BuyNowUnknownProduct_Failed(t *testing.T) {
	svc, _ := newCheckoutForTest(t, NewMemoryCartStore(), nil)

	input := validInput("s-1")
	input.BuyNow = &BuyNowInput{ProductID: 404}

	_, err := svc.collectItems(context.Background(), input)

	require.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestCollectItems_SnapshotsCartLines(t *testing.T) {
	svc, _ := newCheckoutForTest(t, storeWithCart(t, "s-1"), nil)

	items, err := svc.collectItems(context.Background(), validInput("s-1"))

	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(7), items[0].ProductID)
	require.Equal(t, "shirt.jpg", items[0].ProductImage)
}

func TestGenerateOrderNumber_Format(t *testing.T) {
	number := generateOrderNumber()

	require.True(t, strings.HasPrefix(number, "ORD-"))
	require.Equal(t, strings.ToUpper(number), number)

	parts := strings.Split(number, "-")
	require.Len(t, parts, 3)
	require.Len(t, parts[2], 8)
}

func TestGenerateOrderNumber_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		number := generateOrderNumber()

		_, dup := seen[number]
		require.False(t, dup, number)
		seen[number] = struct{}{}
	}
}
