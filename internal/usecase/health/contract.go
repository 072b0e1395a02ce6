package health

import "context"

// StorePinger checks vector store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks an upstream model provider's availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
