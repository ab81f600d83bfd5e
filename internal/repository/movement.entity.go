package repository

import "github.com/nimasrn/ledger/internal/model"

type MovementEntity struct {
	ID         int64      `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	ClientID   int64      `db:"client_id"   gorm:"column:client_id;not null;index"`
	Product    string     `db:"product"     gorm:"column:product;not null"`
	Quantity   Numeric    `db:"quantity"    gorm:"column:quantity;type:numeric;not null;default:0"`
	UnitPrice  Numeric    `db:"unit_price"  gorm:"column:unit_price;type:numeric;not null;default:0"`
	AmountPaid Numeric    `db:"amount_paid" gorm:"column:amount_paid;type:numeric;not null;default:0"`
	Date       model.Date `db:"date"        gorm:"column:date;not null"`
}

func (MovementEntity) TableName() string {
	return "movements"
}

func toMovementEntity(m *model.Movement) *MovementEntity {
	if m == nil {
		return nil
	}
	return &MovementEntity{
		ID:         m.ID,
		ClientID:   m.ClientID,
		Product:    m.Product,
		Quantity:   NewNumeric(m.Quantity),
		UnitPrice:  NewNumeric(m.UnitPrice),
		AmountPaid: NewNumeric(m.AmountPaid),
		Date:       m.Date,
	}
}

func toMovementModel(e *MovementEntity) *model.Movement {
	if e == nil {
		return nil
	}
	return &model.Movement{
		ID:         e.ID,
		ClientID:   e.ClientID,
		Product:    e.Product,
		Quantity:   e.Quantity.Decimal,
		UnitPrice:  e.UnitPrice.Decimal,
		AmountPaid: e.AmountPaid.Decimal,
		Date:       e.Date,
	}
}

func toMovementModels(entities []*MovementEntity) []*model.Movement {
	models := make([]*model.Movement, len(entities))
	for i, e := range entities {
		models[i] = toMovementModel(e)
	}
	return models
}
