package client

import (
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/types"
)

// Client represents a tenant's customer: the party an invoice is billed to.
type Client struct {
	ID       string         `db:"id" json:"id"`
	Name     string         `db:"name" json:"name"`
	Email    string         `db:"email" json:"email"`
	Company  string         `db:"company" json:"company,omitempty"`
	Phone    string         `db:"phone" json:"phone,omitempty"`
	Address  string         `db:"address" json:"address,omitempty"`
	TaxID    string         `db:"tax_id" json:"tax_id,omitempty"`
	Notes    string         `db:"notes" json:"notes,omitempty"`
	Metadata types.Metadata `db:"metadata" json:"metadata,omitempty"`

	types.BaseModel
}

// Validate validates the client
func (c *Client) Validate() error {
	if c.Name == "" {
		return ierr.NewError("client name is required").
			WithHint("Name is required").
			Mark(ierr.ErrValidation)
	}
	if c.Email == "" {
		return ierr.NewError("client email is required").
			WithHint("Email is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TableName returns the table name for the client
func (c *Client) TableName() string {
	return "clients"
}
