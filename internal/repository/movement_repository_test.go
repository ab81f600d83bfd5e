package repository

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/nimasrn/ledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedClient(t *testing.T, repo *ClientRepository, name string) *model.Client {
	t.Helper()
	c, err := repo.Create(context.Background(), &model.Client{Name: name})
	require.NoError(t, err)
	return c
}

func TestMovementRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewMovementRepository(db)
	client := seedClient(t, NewClientRepository(db), "Ana")
	ctx := context.Background()

	t.Run("sale", func(t *testing.T) {
		created, err := repo.Create(ctx, &model.Movement{
			ClientID:  client.ID,
			Product:   "Pan",
			Quantity:  dec("3"),
			UnitPrice: dec("10.005"),
			Date:      model.NewDate(2024, time.May, 2),
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		list, err := repo.ListByClient(ctx, client.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Pan", list[0].Product)
		assert.Equal(t, "2024-05-02", list[0].Date.String())
		assert.Equal(t, "30.02", model.FormatMoney(list[0].Value()))
	})

	t.Run("nonexistent client persists nothing", func(t *testing.T) {
		_, err := repo.Create(ctx, &model.Movement{
			ClientID:  99999,
			Product:   "Venta",
			Quantity:  dec("1"),
			UnitPrice: dec("1"),
			Date:      model.NewDate(2024, time.May, 2),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrForeignKey)

		var count int64
		require.NoError(t, db.Read(ctx).Model(&MovementEntity{}).Where("client_id = ?", 99999).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestMovementRepository_ListByClient(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewMovementRepository(db)
	clients := NewClientRepository(db)
	ana := seedClient(t, clients, "Ana")
	bob := seedClient(t, clients, "Bob")
	ctx := context.Background()

	dates := []model.Date{
		model.NewDate(2024, time.January, 15),
		model.NewDate(2024, time.March, 1),
		model.NewDate(2023, time.December, 31),
		model.NewDate(2024, time.March, 1),
	}
	var ids []int64
	for _, d := range dates {
		m, err := repo.Create(ctx, &model.Movement{ClientID: ana.ID, Product: "Venta", Quantity: dec("1"), UnitPrice: dec("2"), Date: d})
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}
	_, err := repo.Create(ctx, &model.Movement{ClientID: bob.ID, Product: "Venta", Date: dates[0]})
	require.NoError(t, err)

	list, err := repo.ListByClient(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)

	assert.Equal(t, ids[3], list[0].ID)
	assert.Equal(t, ids[1], list[1].ID)
	assert.Equal(t, ids[0], list[2].ID)
	assert.Equal(t, ids[2], list[3].ID)
	for _, m := range list {
		assert.Equal(t, ana.ID, m.ClientID)
	}

	t.Run("unknown client", func(t *testing.T) {
		list, err := repo.ListByClient(ctx, 777)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})
}

func TestMovementRepository_Update(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewMovementRepository(db)
	client := seedClient(t, NewClientRepository(db), "Ana")
	ctx := context.Background()

	m, err := repo.Create(ctx, &model.Movement{ClientID: client.ID, Product: "Venta", Quantity: dec("1"), UnitPrice: dec("100"), Date: model.NewDate(2024, time.June, 1)})
	require.NoError(t, err)

	err = repo.Update(ctx, &model.Movement{
		ID:         m.ID,
		Product:    "Ajuste",
		Quantity:   dec("2"),
		UnitPrice:  dec("7.5"),
		AmountPaid: dec("1.25"),
		Date:       model.NewDate(2024, time.June, 3),
	})
	require.NoError(t, err)

	list, err := repo.ListByClient(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	assert.Equal(t, "Ajuste", got.Product)
	assert.True(t, got.Quantity.Equal(dec("2")))
	assert.True(t, got.UnitPrice.Equal(dec("7.5")))
	assert.True(t, got.AmountPaid.Equal(dec("1.25")))
	assert.Equal(t, "2024-06-03", got.Date.String())
	assert.Equal(t, client.ID, got.ClientID)

	t.Run("missing id is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.Update(ctx, &model.Movement{ID: 5555, Date: model.NewDate(2024, 1, 1)}))
	})
}

func TestMovementRepository_UpdateField(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewMovementRepository(db)
	client := seedClient(t, NewClientRepository(db), "Ana")
	ctx := context.Background()

	m, err := repo.Create(ctx, &model.Movement{ClientID: client.ID, Product: "Venta", Quantity: dec("1"), UnitPrice: dec("100"), Date: model.NewDate(2024, time.June, 1)})
	require.NoError(t, err)

	current := func() *model.Movement {
		list, err := repo.ListByClient(ctx, client.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		return list[0]
	}

	tests := []struct {
		field model.MovementField
		value any
		check func(t *testing.T, m *model.Movement)
	}{
		{model.FieldQuantity, dec("4"), func(t *testing.T, m *model.Movement) {
			assert.True(t, m.Quantity.Equal(dec("4")))
			assert.True(t, m.UnitPrice.Equal(dec("100")))
		}},
		{model.FieldUnitPrice, dec("2.5"), func(t *testing.T, m *model.Movement) {
			assert.True(t, m.UnitPrice.Equal(dec("2.5")))
			assert.True(t, m.Quantity.Equal(dec("4")))
		}},
		{model.FieldAmountPaid, dec("3"), func(t *testing.T, m *model.Movement) {
			assert.True(t, m.AmountPaid.Equal(dec("3")))
		}},
		{model.FieldProduct, "Cafe", func(t *testing.T, m *model.Movement) {
			assert.Equal(t, "Cafe", m.Product)
		}},
		{model.FieldDate, model.NewDate(2025, time.February, 14), func(t *testing.T, m *model.Movement) {
			assert.Equal(t, "2025-02-14", m.Date.String())
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			require.NoError(t, repo.UpdateField(ctx, m.ID, tt.field, tt.value))
			tt.check(t, current())
		})
	}

	t.Run("field outside the allow-list", func(t *testing.T) {
		before := current()

		err := repo.UpdateField(ctx, m.ID, model.MovementField("delete_everything"), "x")
		assert.True(t, model.IsValidationError(err))

		err = repo.UpdateField(ctx, m.ID, model.MovementField("client_id"), 1)
		assert.True(t, model.IsValidationError(err))

		assert.Equal(t, before, current())
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.UpdateField(ctx, 31337, model.FieldProduct, "x"))
	})
}

func TestMovementRepository_Delete(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewMovementRepository(db)
	client := seedClient(t, NewClientRepository(db), "Ana")
	ctx := context.Background()

	keep, err := repo.Create(ctx, &model.Movement{ClientID: client.ID, Product: "Venta", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5), Date: model.NewDate(2024, 1, 1)})
	require.NoError(t, err)
	drop, err := repo.Create(ctx, &model.Movement{ClientID: client.ID, Product: "Venta", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5), Date: model.NewDate(2024, 1, 2)})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, drop.ID))
	require.NoError(t, repo.Delete(ctx, drop.ID))

	list, err := repo.ListByClient(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)
}

func TestNumeric_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want string
	}{
		{"null", nil, "0"},
		{"float", 30.014999999999997, "30.014999999999997"},
		{"large float", 1e200, "1e+200"},
		{"int", int64(7), "7"},
		{"text", []byte("10.005"), "10.005"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Numeric
			require.NoError(t, n.Scan(tt.src))
			assert.True(t, n.Equal(decimal.RequireFromString(tt.want)), n.String())
		})
	}

	for _, bad := range []any{math.Inf(1), math.Inf(-1), math.NaN(), "abc"} {
		var n Numeric
		assert.NotPanics(t, func() {
			assert.Error(t, n.Scan(bad))
		})
	}
}
