package testutil

import (
	"context"

	"github.com/invomate/invomate/internal/postgres"
	"github.com/jmoiron/sqlx"
)

// MockPostgresClient satisfies postgres.IClient for services under test.
// WithTx just runs the function: the in-memory stores have no transactions,
// and tests assert on the end state instead.
type MockPostgresClient struct{}

func NewMockPostgresClient() postgres.IClient {
	return &MockPostgresClient{}
}

func (m *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (m *MockPostgresClient) Querier(ctx context.Context) sqlx.ExtContext {
	return nil
}
