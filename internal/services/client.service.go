package services

import (
	"context"

	"github.com/nimasrn/ledger/internal/model"
	"github.com/nimasrn/ledger/pkg/prom"
)

type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) (*model.Client, error)
	Update(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	ListSummaries(ctx context.Context) ([]*model.ClientSummary, error)
}

type ClientService struct {
	repo ClientRepository
}

func NewClientService(repo ClientRepository) *ClientService {
	return &ClientService{
		repo: repo,
	}
}

// ListClients returns every client with its debt, ordered by name. Never nil.
func (s *ClientService) ListClients(ctx context.Context) ([]*model.ClientSummary, error) {
	list, err := s.repo.ListSummaries(ctx)
	prom.AddLedgerOperation("list_clients", err)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*model.ClientSummary{}
	}
	return list, nil
}

func (s *ClientService) CreateClient(ctx context.Context, name string) (*model.Client, error) {
	name, err := model.NormalizeClientName(name)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.Create(ctx, &model.Client{Name: name})
	prom.AddLedgerOperation("create_client", err)
	return c, err
}

func (s *ClientService) UpdateClient(ctx context.Context, id int64, name string) error {
	name, err := model.NormalizeClientName(name)
	if err != nil {
		return err
	}

	err = s.repo.Update(ctx, id, name)
	prom.AddLedgerOperation("update_client", err)
	return err
}

func (s *ClientService) DeleteClient(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	prom.AddLedgerOperation("delete_client", err)
	return err
}
