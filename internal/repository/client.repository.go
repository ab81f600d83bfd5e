package repository

import (
	"context"
	"fmt"

	"github.com/nimasrn/ledger/internal/model"
	"github.com/nimasrn/ledger/pkg/db"
)

type ClientRepository struct {
	*db.DB
}

func NewClientRepository(db *db.DB) *ClientRepository {
	return &ClientRepository{
		db,
	}
}

func (r *ClientRepository) Create(ctx context.Context, client *model.Client) (*model.Client, error) {
	name, err := model.NormalizeClientName(client.Name)
	if err != nil {
		return nil, err
	}

	entity := toClientEntity(&model.Client{Name: name})
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return toClientModel(entity), nil
}

// Update renames a client. A missing id is not an error.
func (r *ClientRepository) Update(ctx context.Context, id int64, name string) error {
	name, err := model.NormalizeClientName(name)
	if err != nil {
		return err
	}

	err = r.Write(ctx).
		Model(&ClientEntity{}).
		Where("id = ?", id).
		Update("name", name).
		Error
	if err != nil {
		return fmt.Errorf("update client %d: %w", id, err)
	}
	return nil
}

// Delete removes a client; its movements go with it through ON DELETE CASCADE.
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	err := r.Write(ctx).
		Where("id = ?", id).
		Delete(&ClientEntity{}).
		Error
	if err != nil {
		return fmt.Errorf("delete client %d: %w", id, err)
	}
	return nil
}

func (r *ClientRepository) ListSummaries(ctx context.Context) ([]*model.ClientSummary, error) {
	var entities []*ClientSummaryEntity
	err := r.Read(ctx).
		Table("clients AS c").
		Select(`
            c.id                                                   AS id,
            c.name                                                 AS name,
            COALESCE(SUM(m.quantity * m.unit_price - m.amount_paid), 0) AS debt_total,
            MAX(CASE WHEN m.amount_paid > 0 THEN m.date END)       AS last_payment_date
        `).
		Joins("LEFT JOIN movements AS m ON m.client_id = c.id").
		Group("c.id, c.name").
		Order("c.name ASC, c.id ASC").
		Scan(&entities).
		Error
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	return toClientSummaryModels(entities), nil
}
