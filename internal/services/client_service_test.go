package services

import (
	"context"
	"errors"
	"testing"

	"github.com/nimasrn/ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClientService_CreateClient(t *testing.T) {
	ctx := context.Background()

	t.Run("trims and stores", func(t *testing.T) {
		repo := new(MockClientRepository)
		svc := NewClientService(repo)

		repo.On("Create", mock.Anything, &model.Client{Name: "Ana"}).Return(&model.Client{ID: 7, Name: "Ana"}, nil)

		c, err := svc.CreateClient(ctx, "  Ana ")
		require.NoError(t, err)
		assert.Equal(t, int64(7), c.ID)
		repo.AssertExpectations(t)
	})

	t.Run("empty name never reaches the store", func(t *testing.T) {
		repo := new(MockClientRepository)
		svc := NewClientService(repo)

		_, err := svc.CreateClient(ctx, " ")
		assert.True(t, model.IsValidationError(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestClientService_UpdateClient(t *testing.T) {
	ctx := context.Background()

	t.Run("renames", func(t *testing.T) {
		repo := new(MockClientRepository)
		svc := NewClientService(repo)
		repo.On("Update", mock.Anything, int64(3), "Bea").Return(nil)

		require.NoError(t, svc.UpdateClient(ctx, 3, "Bea "))
		repo.AssertExpectations(t)
	})

	t.Run("empty name", func(t *testing.T) {
		repo := new(MockClientRepository)
		svc := NewClientService(repo)

		err := svc.UpdateClient(ctx, 3, "")
		assert.True(t, model.IsValidationError(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestClientService_DeleteClient(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo)
	storeErr := errors.New("database is locked")
	repo.On("Delete", mock.Anything, int64(9)).Return(storeErr)

	err := svc.DeleteClient(context.Background(), 9)
	assert.ErrorIs(t, err, storeErr)
}

func TestClientService_ListClients(t *testing.T) {
	t.Run("never nil", func(t *testing.T) {
		repo := new(MockClientRepository)
		svc := NewClientService(repo)
		repo.On("ListSummaries", mock.Anything).Return(nil, nil)

		list, err := svc.ListClients(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("store error", func(t *testing.T) {
		repo := new(MockClientRepository)
		svc := NewClientService(repo)
		repo.On("ListSummaries", mock.Anything).Return(nil, errors.New("no such table: clients"))

		_, err := svc.ListClients(context.Background())
		assert.EqualError(t, err, "no such table: clients")
	})
}
