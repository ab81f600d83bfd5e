package fixtures

import (
	"time"

	"github.com/nimasrn/ledger/internal/model"
	"github.com/shopspring/decimal"
)

var (
	// FixedNow is the clock used wherever a test needs "today".
	FixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

	Jan10 = model.NewDate(2024, time.January, 10)
	Feb05 = model.NewDate(2024, time.February, 5)
	Feb20 = model.NewDate(2024, time.February, 20)
)

var (
	ValidClientNames = []string{
		"Ana",
		"Bruno",
		"  Carla  ",
		"Distribuidora del Sur S.A.",
	}

	InvalidClientNames = []string{
		"",
		"   ",
		"\n\t",
	}

	// UnknownMovementFields are rejected by the single-field update.
	UnknownMovementFields = []string{
		"id",
		"client_id",
		"movement_value",
		"product; DROP TABLE movements",
		"",
	}
)

func NewSaleRequest(clientID int64, product string, qty, price string, date model.Date) model.SaleRequest {
	return model.SaleRequest{
		ClientID:  clientID,
		Product:   product,
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString(price),
		Date:      date,
	}
}

func NewPaymentRequest(clientID int64, amount string, date model.Date) model.PaymentRequest {
	return model.PaymentRequest{
		ClientID: clientID,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
	}
}

func NewMovementUpdate(product, qty, price, paid string, date model.Date) model.MovementUpdate {
	return model.MovementUpdate{
		Product:    product,
		Quantity:   decimal.RequireFromString(qty),
		UnitPrice:  decimal.RequireFromString(price),
		AmountPaid: decimal.RequireFromString(paid),
		Date:       date,
	}
}
