package handlers

import "github.com/nimasrn/ledger/internal/model"

type clientResponse struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	DebtTotal       string         `json:"debt_total"`
	LastPaymentDate model.NullDate `json:"last_payment_date"`
}

type movementResponse struct {
	ID            int64      `json:"id"`
	ClientID      int64      `json:"client_id"`
	Product       string     `json:"product"`
	Quantity      float64    `json:"quantity"`
	UnitPrice     float64    `json:"unit_price"`
	AmountPaid    float64    `json:"amount_paid"`
	Date          model.Date `json:"date"`
	MovementValue string     `json:"movement_value"`
}

func toClientResponses(list []*model.ClientSummary) []clientResponse {
	out := make([]clientResponse, len(list))
	for i, c := range list {
		out[i] = clientResponse{
			ID:              c.ID,
			Name:            c.Name,
			DebtTotal:       model.FormatMoney(c.DebtTotal),
			LastPaymentDate: c.LastPaymentDate,
		}
	}
	return out
}

func toMovementResponses(list []*model.Movement) []movementResponse {
	out := make([]movementResponse, len(list))
	for i, m := range list {
		out[i] = movementResponse{
			ID:            m.ID,
			ClientID:      m.ClientID,
			Product:       m.Product,
			Quantity:      model.PlainNumber(m.Quantity),
			UnitPrice:     model.PlainNumber(m.UnitPrice),
			AmountPaid:    model.PlainNumber(m.AmountPaid),
			Date:          m.Date,
			MovementValue: model.FormatMoney(m.Value()),
		}
	}
	return out
}
