package repository

import "github.com/nimasrn/ledger/internal/model"

type ClientEntity struct {
	ID   int64  `db:"id"   gorm:"primaryKey;autoIncrement;column:id"`
	Name string `db:"name" gorm:"column:name;not null"`
}

func (ClientEntity) TableName() string {
	return "clients"
}

// ClientSummaryEntity is the row shape of the balance aggregate.
type ClientSummaryEntity struct {
	ID              int64          `gorm:"column:id"`
	Name            string         `gorm:"column:name"`
	DebtTotal       Numeric        `gorm:"column:debt_total"`
	LastPaymentDate model.NullDate `gorm:"column:last_payment_date"`
}

func toClientEntity(m *model.Client) *ClientEntity {
	if m == nil {
		return nil
	}
	return &ClientEntity{
		ID:   m.ID,
		Name: m.Name,
	}
}

func toClientModel(e *ClientEntity) *model.Client {
	if e == nil {
		return nil
	}
	return &model.Client{
		ID:   e.ID,
		Name: e.Name,
	}
}

func toClientSummaryModels(entities []*ClientSummaryEntity) []*model.ClientSummary {
	models := make([]*model.ClientSummary, len(entities))
	for i, e := range entities {
		models[i] = &model.ClientSummary{
			ID:              e.ID,
			Name:            e.Name,
			DebtTotal:       e.DebtTotal.Decimal,
			LastPaymentDate: e.LastPaymentDate,
		}
	}
	return models
}
