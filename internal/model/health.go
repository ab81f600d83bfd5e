package model

const HealthOK = "ok"

// Health holds one entry per checked dependency: HealthOK or the ping error.
// Redis stays empty when no cache is configured.
type Health struct {
	Database string
	Redis    string
}

func (h Health) Healthy() bool {
	return h.Database == HealthOK && (h.Redis == "" || h.Redis == HealthOK)
}
