package client

import (
	"context"

	"github.com/invomate/invomate/internal/types"
)

// Repository defines the interface for client persistence
type Repository interface {
	Create(ctx context.Context, client *Client) error
	Get(ctx context.Context, id string) (*Client, error)
	Update(ctx context.Context, client *Client) error
	List(ctx context.Context, filter types.Filter) ([]*Client, error)
	Count(ctx context.Context) (int, error)
}
