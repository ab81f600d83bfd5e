package repository

import (
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Numeric reads NUMERIC and REAL columns through their text form, so a value
// decimal cannot represent (sqlite reports an overflowed REAL as Inf) comes
// back as an error instead of a panic.
type Numeric struct {
	decimal.Decimal
}

func NewNumeric(d decimal.Decimal) Numeric {
	return Numeric{Decimal: d}
}

func (n *Numeric) Scan(src any) error {
	var s sql.NullString
	if err := s.Scan(src); err != nil {
		return fmt.Errorf("scan numeric: %w", err)
	}
	if !s.Valid {
		n.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return fmt.Errorf("scan numeric %q: %w", s.String, err)
	}
	n.Decimal = d
	return nil
}

func (n Numeric) Value() (driver.Value, error) {
	return n.Decimal.Value()
}
