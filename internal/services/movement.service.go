package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nimasrn/ledger/internal/model"
	"github.com/nimasrn/ledger/pkg/prom"
	"github.com/shopspring/decimal"
)

const (
	kindSale    = "sale"
	kindPayment = "payment"
)

type MovementRepository interface {
	Create(ctx context.Context, m *model.Movement) (*model.Movement, error)
	ListByClient(ctx context.Context, clientID int64) ([]*model.Movement, error)
	Update(ctx context.Context, m *model.Movement) error
	UpdateField(ctx context.Context, id int64, field model.MovementField, value any) error
	Delete(ctx context.Context, id int64) error
}

type MovementService struct {
	repo MovementRepository
	now  func() time.Time
}

func NewMovementService(repo MovementRepository) *MovementService {
	return &MovementService{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock replaces the clock used to default movement dates.
func (s *MovementService) WithClock(now func() time.Time) *MovementService {
	s.now = now
	return s
}

func (s *MovementService) today() model.Date {
	return model.Today(s.now())
}

func (s *MovementService) ListMovements(ctx context.Context, clientID int64) ([]*model.Movement, error) {
	list, err := s.repo.ListByClient(ctx, clientID)
	prom.AddLedgerOperation("list_movements", err)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*model.Movement{}
	}
	return list, nil
}

// RecordSale stores quantity x unit_price for the client. An empty product
// becomes "Venta", any other text is kept as sent. The date defaults to today.
func (s *MovementService) RecordSale(ctx context.Context, req model.SaleRequest) (*model.Movement, error) {
	if err := model.CheckAmounts(req.Quantity, req.UnitPrice, decimal.Zero); err != nil {
		return nil, err
	}
	product := req.Product
	if product == "" {
		product = model.DefaultSaleProduct
	}
	date := req.Date
	if date.IsZero() {
		date = s.today()
	}

	m, err := s.repo.Create(ctx, &model.Movement{
		ClientID:   req.ClientID,
		Product:    product,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		AmountPaid: decimal.Zero,
		Date:       date,
	})
	prom.AddLedgerOperation("record_sale", err)
	if err != nil {
		return nil, err
	}
	prom.AddMovementRecorded(kindSale)
	return m, nil
}

// RecordPayment stores a "Pago" movement that only carries amount_paid.
func (s *MovementService) RecordPayment(ctx context.Context, req model.PaymentRequest) (*model.Movement, error) {
	if err := model.CheckAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	date := req.Date
	if date.IsZero() {
		date = s.today()
	}

	m, err := s.repo.Create(ctx, &model.Movement{
		ClientID:   req.ClientID,
		Product:    model.PaymentProduct,
		Quantity:   decimal.Zero,
		UnitPrice:  decimal.Zero,
		AmountPaid: req.Amount,
		Date:       date,
	})
	prom.AddLedgerOperation("record_payment", err)
	if err != nil {
		return nil, err
	}
	prom.AddMovementRecorded(kindPayment)
	return m, nil
}

func (s *MovementService) UpdateMovement(ctx context.Context, id int64, u model.MovementUpdate) error {
	if err := u.Validate(); err != nil {
		return err
	}

	err := s.repo.Update(ctx, &model.Movement{
		ID:         id,
		Product:    u.Product,
		Quantity:   u.Quantity,
		UnitPrice:  u.UnitPrice,
		AmountPaid: u.AmountPaid,
		Date:       u.Date,
	})
	prom.AddLedgerOperation("update_movement", err)
	return err
}

// UpdateMovementField sets a single allow-listed field. Numeric fields take
// a decimal, date takes a model.Date or a YYYY-MM-DD string, product a string.
func (s *MovementService) UpdateMovementField(ctx context.Context, id int64, fieldName string, value any) error {
	field, err := model.ParseMovementField(fieldName)
	if err != nil {
		return err
	}

	v, err := fieldValue(field, value)
	if err != nil {
		return err
	}

	err = s.repo.UpdateField(ctx, id, field, v)
	prom.AddLedgerOperation("update_movement_field", err)
	return err
}

func fieldValue(field model.MovementField, value any) (any, error) {
	switch {
	case field.IsNumeric():
		switch v := value.(type) {
		case decimal.Decimal:
			if err := model.CheckAmount("value", v); err != nil {
				return nil, err
			}
			return v, nil
		case nil:
			return decimal.Zero, nil
		}
	case field == model.FieldDate:
		switch v := value.(type) {
		case model.Date:
			if v.IsZero() {
				return nil, model.NewValidationError("value", "date is required")
			}
			return v, nil
		case string:
			return model.ParseDate(v)
		}
	case field == model.FieldProduct:
		switch v := value.(type) {
		case string:
			return v, nil
		case nil:
			return "", nil
		}
	}
	return nil, model.NewValidationError("value", fmt.Sprintf("invalid value for %s", field))
}

func (s *MovementService) DeleteMovement(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	prom.AddLedgerOperation("delete_movement", err)
	return err
}
