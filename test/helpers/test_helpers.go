package helpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/ledger/internal/model"
	"github.com/nimasrn/ledger/internal/repository"
	"github.com/nimasrn/ledger/pkg/db"
	"github.com/nimasrn/ledger/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// SetupTestDB opens an in-memory sqlite ledger with the embedded migrations
// applied. The connection is closed when the test ends.
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	conn, err := db.Open(db.Config{Driver: db.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, conn.Migrate(context.Background()))
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// SetupTestRedis starts miniredis behind a uniquely named adapter so that
// the adapter cache never hands a test someone else's client.
func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	connName := fmt.Sprintf("test-%s-%d", t.Name(), time.Now().UnixNano())
	adapter, err := redis.NewRedisAdapter(connName, "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = adapter.Close()
		mr.Close()
	})
	return mr, adapter
}

func CreateTestClient(t *testing.T, conn *db.DB, name string) *model.Client {
	t.Helper()

	c, err := repository.NewClientRepository(conn).Create(context.Background(), &model.Client{Name: name})
	require.NoError(t, err)
	return c
}

func CreateTestSale(t *testing.T, conn *db.DB, clientID int64, qty, price string, date model.Date) *model.Movement {
	t.Helper()

	m, err := repository.NewMovementRepository(conn).Create(context.Background(), &model.Movement{
		ClientID:  clientID,
		Product:   model.DefaultSaleProduct,
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString(price),
		Date:      date,
	})
	require.NoError(t, err)
	return m
}

func CreateTestPayment(t *testing.T, conn *db.DB, clientID int64, amount string, date model.Date) *model.Movement {
	t.Helper()

	m, err := repository.NewMovementRepository(conn).Create(context.Background(), &model.Movement{
		ClientID:   clientID,
		Product:    model.PaymentProduct,
		AmountPaid: decimal.RequireFromString(amount),
		Date:       date,
	})
	require.NoError(t, err)
	return m
}

func CountMovements(t *testing.T, conn *db.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, conn.Read(context.Background()).Table("movements").Count(&n).Error)
	return n
}

func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
