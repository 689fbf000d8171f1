package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alnoorcollection/storefront/internal/domain"
	"github.com/alnoorcollection/storefront/internal/repository"
)

type stubMessageRepo struct {
	nextID   int64
	messages map[int64]*domain.ContactMessage
}

func newStubMessageRepo() *stubMessageRepo {
	return &stubMessageRepo{messages: make(map[int64]*domain.ContactMessage)}
}

func (r *stubMessageRepo) Create(_ context.Context, msg *domain.ContactMessage) (int64, error) {
	r.nextID++
	msg.ID = r.nextID
	copied := *msg
	r.messages[msg.ID] = &copied

	return msg.ID, nil
}

func (r *stubMessageRepo) GetByID(_ context.Context, id int64) (*domain.ContactMessage, error) {
	msg, ok := r.messages[id]
	if !ok {
		return nil, repository.ErrMessageNotFound
	}

	copied := *msg
	return &copied, nil
}

func (r *stubMessageRepo) List(_ context.Context, filter repository.MessageFilter) ([]domain.ContactMessage, error) {
	var out []domain.ContactMessage
	for _, m := range r.messages {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}

		out = append(out, *m)
	}

	return out, nil
}

func (r *stubMessageRepo) ChangeStatus(_ context.Context, id int64, status domain.MessageStatus) error {
	msg, ok := r.messages[id]
	if !ok {
		return repository.ErrMessageNotFound
	}

	msg.Status = status
	return nil
}

func (r *stubMessageRepo) DeleteByID(_ context.Context, id int64) error {
	if _, ok := r.messages[id]; !ok {
		return repository.ErrMessageNotFound
	}

	delete(r.messages, id)
	return nil
}

func newMessagesForTest() (MessageService, *stubMessageRepo) {
	repo := newStubMessageRepo()
	return NewMessageService(repo, zap.NewNop()), repo
}

func validSubmission() *SubmitMessageInput {
	return &SubmitMessageInput{
		Name:    "Sarah Ahmed",
		Email:   "sarah@example.com",
		Phone:   "+92 300 1234567",
		Message: "I would like to know more about your collection.",
	}
}

func TestMessages_Submit_StartsAsNew(t *testing.T) {
	svc, repo := newMessagesForTest()

	msg, err := svc.Submit(context.Background(), validSubmission())

	require.NoError(t, err)
	require.Equal(t, domain.MessageStatusNew, msg.Status)
	require.Equal(t, domain.MessageStatusNew, repo.messages[msg.ID].Status)
}

func TestMessages_Submit_MissingFields_Failed(t *testing.T) {
	svc, _ := newMessagesForTest()

	input := validSubmission()
	input.Message = ""

	msg, err := svc.Submit(context.Background(), input)

	require.Nil(t, msg)

	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
}

func TestMessages_Submit_BadEmail_Failed(t *testing.T) {
	svc, _ := newMessagesForTest()

	input := validSubmission()
	input.Email = "not-an-email"

	_, err := svc.Submit(context.Background(), input)

	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
}

func TestMessages_GetByID_MarksNewAsRead(t *testing.T) {
	svc, repo := newMessagesForTest()
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, validSubmission())
	require.NoError(t, err)

	msg, err := svc.GetByID(ctx, submitted.ID)

	require.NoError(t, err)
	require.Equal(t, domain.MessageStatusRead, msg.Status)
	require.Equal(t, domain.MessageStatusRead, repo.messages[submitted.ID].Status)
}

func TestMessages_GetByID_RepliedStaysReplied(t *testing.T) {
	svc, _ := newMessagesForTest()
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, validSubmission())
	require.NoError(t, err)

	require.NoError(t, svc.ChangeStatus(ctx, submitted.ID, domain.MessageStatusReplied))

	msg, err := svc.GetByID(ctx, submitted.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MessageStatusReplied, msg.Status)
}

func TestMessages_List_FiltersByStatus(t *testing.T) {
	svc, _ := newMessagesForTest()
	ctx := context.Background()

	first, err := svc.Submit(ctx, validSubmission())
	require.NoError(t, err)

	second := validSubmission()
	second.Email = "ali@example.com"
	_, err = svc.Submit(ctx, second)
	require.NoError(t, err)

	require.NoError(t, svc.ChangeStatus(ctx, first.ID, domain.MessageStatusReplied))

	replied, err := svc.List(ctx, repository.MessageFilter{Status: domain.MessageStatusReplied})
	require.NoError(t, err)
	require.Len(t, replied, 1)
	require.Equal(t, first.ID, replied[0].ID)
}

func TestMessages_List_InvalidStatus_Failed(t *testing.T) {
	svc, _ := newMessagesForTest()

	_, err := svc.List(context.Background(), repository.MessageFilter{Status: "archived"})

	require.ErrorIs(t, err, ErrInvalidMessageStatus)
}

func TestMessages_ChangeStatus_InvalidLabel_Failed(t *testing.T) {
	svc, _ := newMessagesForTest()

	err := svc.ChangeStatus(context.Background(), 1, "spam")

	require.ErrorIs(t, err, ErrInvalidMessageStatus)
}

func TestMessages_ChangeStatus_UnknownID_Failed(t *testing.T) {
	svc, _ := newMessagesForTest()

	err := svc.ChangeStatus(context.Background(), 404, domain.MessageStatusRead)

	require.ErrorIs(t, err, repository.ErrMessageNotFound)
}

func TestMessages_Delete(t *testing.T) {
	svc, repo := newMessagesForTest()
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, validSubmission())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, submitted.ID))
	require.Empty(t, repo.messages)

	require.ErrorIs(t, svc.Delete(ctx, submitted.ID), repository.ErrMessageNotFound)
}
