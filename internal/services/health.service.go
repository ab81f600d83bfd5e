package services

import (
	"context"
	"time"

	"github.com/nimasrn/ledger/internal/model"
)

const healthPingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	db    Pinger
	cache Pinger
}

func NewHealthService(db Pinger) *HealthService {
	return &HealthService{db: db}
}

// WithCache adds redis to the checked dependencies.
func (s *HealthService) WithCache(cache Pinger) *HealthService {
	s.cache = cache
	return s
}

// Get pings every configured dependency under one shared timeout.
func (s *HealthService) Get(ctx context.Context) model.Health {
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	h := model.Health{Database: pingStatus(ctx, s.db)}
	if s.cache != nil {
		h.Redis = pingStatus(ctx, s.cache)
	}
	return h
}

func pingStatus(ctx context.Context, p Pinger) string {
	if err := p.Ping(ctx); err != nil {
		return err.Error()
	}
	return model.HealthOK
}
