package dto

import (
	"context"

	"github.com/invomate/invomate/internal/domain/client"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/types"
)

// CreateClientRequest is the payload for creating a client
type CreateClientRequest struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Company  string         `json:"company"`
	Phone    string         `json:"phone"`
	Address  string         `json:"address"`
	TaxID    string         `json:"tax_id"`
	Notes    string         `json:"notes"`
	Metadata types.Metadata `json:"metadata"`
}

func (r *CreateClientRequest) Validate() error {
	if r.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Name is required").
			Mark(ierr.ErrValidation)
	}
	if r.Email == "" {
		return ierr.NewError("email is required").
			WithHint("Email is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToClient converts the request into a domain client
func (r *CreateClientRequest) ToClient(ctx context.Context) *client.Client {
	return &client.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		Name:      r.Name,
		Email:     r.Email,
		Company:   r.Company,
		Phone:     r.Phone,
		Address:   r.Address,
		TaxID:     r.TaxID,
		Notes:     r.Notes,
		Metadata:  r.Metadata,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// UpdateClientRequest is the payload for updating a client
type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Company *string `json:"company,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	TaxID   *string `json:"tax_id,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// ClientResponse wraps a domain client for API responses
type ClientResponse struct {
	*client.Client
}

// NewClientResponse creates a new client response
func NewClientResponse(c *client.Client) *ClientResponse {
	return &ClientResponse{Client: c}
}

// ListClientsResponse is a paginated list of clients
type ListClientsResponse struct {
	Items []*ClientResponse `json:"items"`
	Total int               `json:"total"`
}
