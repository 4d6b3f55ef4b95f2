package service

import (
	"context"
	"time"

	"github.com/invomate/invomate/internal/api/dto"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/types"
)

// ClientService manages the tenant's client roster. Creation is gated
// against the plan's client limit.
type ClientService interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error)
	GetClient(ctx context.Context, id string) (*dto.ClientResponse, error)
	ListClients(ctx context.Context, filter types.Filter) (*dto.ListClientsResponse, error)
	UpdateClient(ctx context.Context, id string, req dto.UpdateClientRequest) (*dto.ClientResponse, error)
	ArchiveClient(ctx context.Context, id string) error
}

type clientService struct {
	ServiceParams
	gate UsageGateService
}

// NewClientService creates a new client service
func NewClientService(params ServiceParams) ClientService {
	return &clientService{
		ServiceParams: params,
		gate:          NewUsageGateService(params),
	}
}

func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if result := s.gate.CheckLimits(ctx, types.ResourceKindClient); !result.CanCreate() {
		return nil, ierr.NewError("client limit reached").
			WithHintf("You have used %d of %d clients on your plan", result.Current, result.Limit).
			Mark(ierr.ErrPermissionDenied)
	}

	c := req.ToClient(ctx)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.ClientRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("created client", "client_id", c.ID, "name", c.Name)
	return dto.NewClientResponse(c), nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := s.ClientRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewClientResponse(c), nil
}

func (s *clientService) ListClients(ctx context.Context, filter types.Filter) (*dto.ListClientsResponse, error) {
	clients, err := s.ClientRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.ClientRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ClientResponse, len(clients))
	for i, c := range clients {
		items[i] = dto.NewClientResponse(c)
	}
	return &dto.ListClientsResponse{Items: items, Total: total}, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	c, err := s.ClientRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Company != nil {
		c.Company = *req.Company
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.TaxID != nil {
		c.TaxID = *req.TaxID
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}
	c.UpdatedAt = time.Now().UTC()
	c.UpdatedBy = types.GetUserID(ctx)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.ClientRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return dto.NewClientResponse(c), nil
}

// ArchiveClient soft-deletes a client. Invoices referencing it remain.
func (s *clientService) ArchiveClient(ctx context.Context, id string) error {
	c, err := s.ClientRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if c.Status == types.StatusArchived {
		return nil
	}

	c.Status = types.StatusArchived
	c.UpdatedAt = time.Now().UTC()
	c.UpdatedBy = types.GetUserID(ctx)

	return s.ClientRepo.Update(ctx, c)
}
