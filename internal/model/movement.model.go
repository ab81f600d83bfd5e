package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DefaultSaleProduct = "Venta"
	PaymentProduct     = "Pago"
)

// Movement is one ledger entry: a sale, a payment, or anything in between.
// Nothing enforces sale XOR payment; the creating endpoint decides which fields are set.
type Movement struct {
	ID         int64
	ClientID   int64
	Product    string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	AmountPaid decimal.Decimal
	Date       Date
}

// Value is the signed contribution of the movement to the client's debt:
// quantity * unit_price - amount_paid.
func (m *Movement) Value() decimal.Decimal {
	return m.Quantity.Mul(m.UnitPrice).Sub(m.AmountPaid)
}

// MovementField names a column that may be changed through a single-field update.
type MovementField string

const (
	FieldProduct    MovementField = "product"
	FieldQuantity   MovementField = "quantity"
	FieldUnitPrice  MovementField = "unit_price"
	FieldAmountPaid MovementField = "amount_paid"
	FieldDate       MovementField = "date"
)

// movementColumns is the allow-list for single-field updates. Nothing outside it
// is ever interpolated into an UPDATE.
var movementColumns = map[MovementField]string{
	FieldProduct:    "product",
	FieldQuantity:   "quantity",
	FieldUnitPrice:  "unit_price",
	FieldAmountPaid: "amount_paid",
	FieldDate:       "date",
}

func ParseMovementField(name string) (MovementField, error) {
	f := MovementField(name)
	if _, ok := movementColumns[f]; !ok {
		return "", NewValidationError("field_name", fmt.Sprintf("field %q is not allowed", name))
	}
	return f, nil
}

// Column returns the column behind f and false when f is not allow-listed.
func (f MovementField) Column() (string, bool) {
	c, ok := movementColumns[f]
	return c, ok
}

func (f MovementField) IsNumeric() bool {
	return f == FieldQuantity || f == FieldUnitPrice || f == FieldAmountPaid
}

type SaleRequest struct {
	ClientID  int64
	Product   string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Date      Date // zero means today
}

type PaymentRequest struct {
	ClientID int64
	Amount   decimal.Decimal
	Date     Date // zero means today
}

// MovementUpdate replaces every mutable field of a movement.
type MovementUpdate struct {
	Product    string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	AmountPaid decimal.Decimal
	Date       Date
}

func (u MovementUpdate) Validate() error {
	if u.Date.IsZero() {
		return NewValidationError("date", "date is required")
	}
	return CheckAmounts(u.Quantity, u.UnitPrice, u.AmountPaid)
}

// CheckAmounts applies CheckAmount to the three numeric movement fields.
func CheckAmounts(quantity, unitPrice, amountPaid decimal.Decimal) error {
	if err := CheckAmount(string(FieldQuantity), quantity); err != nil {
		return err
	}
	if err := CheckAmount(string(FieldUnitPrice), unitPrice); err != nil {
		return err
	}
	return CheckAmount(string(FieldAmountPaid), amountPaid)
}
