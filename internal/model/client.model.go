package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Client struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ClientSummary is a client with its derived balance.
type ClientSummary struct {
	ID              int64
	Name            string
	DebtTotal       decimal.Decimal
	LastPaymentDate NullDate
}

// NormalizeClientName trims name and rejects it when nothing is left.
func NormalizeClientName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewValidationError("name", "name is required")
	}
	return name, nil
}
